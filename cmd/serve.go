package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/gaurav-prasanna/pagesimplify/core/host"
	"github.com/gaurav-prasanna/pagesimplify/core/selector"
	"github.com/gaurav-prasanna/pagesimplify/core/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Answer native-messaging requests for a saved page",
	Long: `Serve reads length-prefixed JSON messages on stdin and answers on stdout,
the framing browsers use for native messaging hosts. The page is rewritten on
disk after every message that changes it.

Messages:
  {"action":"simplify","level":"B1","showOriginal":true}
  {"action":"toggleOriginal","show":false}`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	path := args[0]

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	key, err := a.store.APIKey()
	if err != nil && !errors.Is(err, store.ErrNoCredential) {
		return err
	}
	if key == "" {
		a.logger.Warn("no API key configured; simplify requests will fail", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	server := &host.Server{
		Dispatcher: &host.Dispatcher{
			Tree:         doc,
			Selector:     selector.New(a.cfg.Selector),
			Client:       a.client(key),
			Pipeline:     a.cfg.Pipeline,
			Settings:     a.store,
			DefaultLevel: a.store.Settings().Level,
			Logger:       a.logger,
		},
		OnChange: func() error { return saveDocument(doc, path) },
		Logger:   a.logger,
	}

	a.logger.Info("serving page", zap.String("page", path))
	return server.Serve(ctx, os.Stdin, os.Stdout)
}
