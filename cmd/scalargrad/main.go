// Command scalargrad drives the scalar autodiff engine from the
// terminal.
//
// Usage:
//
//	scalargrad serve --addr :8080        # start the web graph explorer
//	scalargrad train --epochs 2000       # run the XOR training demo
//	scalargrad dot --out graph.dot       # emit the quick-start graph as DOT
package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"scalargrad/engine"
	"scalargrad/nn"
	"scalargrad/server"
	"scalargrad/viz"
)

func main() {
	root := &cobra.Command{
		Use:           "scalargrad",
		Short:         "Scalar reverse-mode autodiff engine with a web graph explorer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), trainCmd(), dotCmd())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var (
		addr  string
		debug bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the graph explorer HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				gin.SetMode(gin.DebugMode)
			} else {
				gin.SetMode(gin.ReleaseMode)
			}
			slog.Info("starting graph explorer", "addr", addr)
			return http.ListenAndServe(addr, server.New().Handler())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", envOr("SCALARGRAD_ADDR", ":8080"), "listen address")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable gin debug mode")
	return cmd
}

func trainCmd() *cobra.Command {
	var (
		epochs int
		lr     float64
		seed   int64
	)
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the XOR demo network and print predictions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			rng := rand.New(rand.NewSource(seed))
			model := nn.NewMLP(rng, 2, []int{4, 4, 1})
			trainer := nn.NewTrainer(model, lr, nn.XORDataset())

			slog.Info("training", "epochs", epochs, "learning_rate", lr, "seed", seed)
			for epoch := 1; epoch <= epochs; epoch++ {
				loss, _ := trainer.Step()
				if epoch%100 == 0 || epoch == 1 {
					slog.Info("epoch", "n", epoch, "loss", loss)
				}
			}

			for _, s := range nn.XORDataset() {
				fmt.Printf("in: %v  target: %g  pred: %.4f\n", s.Input, s.Target, trainer.Predict(s.Input))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&epochs, "epochs", 2000, "training epochs")
	cmd.Flags().Float64Var(&lr, "lr", 0.1, "learning rate")
	cmd.Flags().Int64Var(&seed, "seed", 0, "weight init seed (0 = from clock)")
	return cmd
}

func dotCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Write the quick-start expression graph as Graphviz DOT",
		RunE: func(cmd *cobra.Command, args []string) error {
			x1 := engine.NewValue(2.0)
			x2 := engine.NewValue(0.0)
			w1 := engine.NewValue(-3.0)
			w2 := engine.NewValue(1.0)
			b := engine.NewValue(6.7)
			loss := x1.Mul(w1).Add(x2.Mul(w2)).Add(b).Tanh()
			loss.Backward()

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return viz.WriteDOT(w, loss)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
