package cmd

import (
	"fmt"
	"os"

	"github.com/gaurav-prasanna/pagesimplify/core/output"
	"github.com/gaurav-prasanna/pagesimplify/core/toggle"
	"github.com/gaurav-prasanna/pagesimplify/core/tree"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var flagShow bool

var toggleCmd = &cobra.Command{
	Use:   "toggle <file>",
	Short: "Show or hide the original text on a simplified page",
	Long: `Toggle rewrites a page produced by "simplify" so that every original-text
annotation is shown or hidden. The choice is saved as the default for later runs.

Examples:
  pagesimplify toggle example_com.simplified.html --show
  pagesimplify toggle page.simplified.html --show=false`,
	Args: cobra.ExactArgs(1),
	RunE: runToggle,
}

func init() {
	rootCmd.AddCommand(toggleCmd)
	toggleCmd.Flags().BoolVar(&flagShow, "show", true, "Show (true) or hide (false) the original text")
}

func runToggle(cmd *cobra.Command, args []string) error {
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

	n := toggle.SetOriginalVisible(doc, flagShow)
	if n > 0 {
		if err := saveDocument(doc, path); err != nil {
			return err
		}
	}
	if err := a.store.SaveShowOriginal(flagShow); err != nil {
		a.logger.Warn("cannot save show-original", zap.Error(err))
	}

	state := "hidden"
	if flagShow {
		state = "shown"
	}
	fmt.Fprintf(os.Stdout, "Original text %s on %d fragments\n", state, n)
	return nil
}

func loadDocument(path string) (*tree.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer f.Close()
	return tree.Parse(f)
}

func saveDocument(doc *tree.Document, path string) error {
	page, err := doc.HTML()
	if err != nil {
		return err
	}
	return output.WriteFile(path, []byte(page))
}
