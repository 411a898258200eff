package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	mathdoc "github.com/alnah/go-mathdoc"
)

// elementsFlags holds flags for the elements command.
type elementsFlags struct {
	input   inputFlags
	output  string
	preview bool
}

// newElementsCmd builds the command that prints the parsed element sequence.
func (a *app) newElementsCmd() *cobra.Command {
	var f elementsFlags

	cmd := &cobra.Command{
		Use:   "elements FILE",
		Short: "Print the element sequence a file parses into",
		Long: `Elements parses FILE the way the docx output does and prints the resulting
headings, paragraphs, list items, code blocks and rules as JSON. With
--preview it prints the same sequence as an HTML fragment instead.

Examples:
  mathdoc elements notes.md
  mathdoc elements notes.md --preview -o preview.html`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runElements(cmd.Context(), cmd.Flags(), &f, args[0])
		},
	}

	addInputFlags(cmd.Flags(), &f.input)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "print an HTML fragment instead of JSON")
	return cmd
}

// runElements converts one file to its element listing.
func (a *app) runElements(ctx context.Context, fs *flag.FlagSet, f *elementsFlags, path string) error {
	env := a.env

	typeName := env.Config.Input.Type
	if fs.Changed("type") {
		typeName = f.input.inputType
	}
	fallback, err := mathdoc.ParseInputType(typeName)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	// No page output is produced, so never start a browser
	conv, err := env.NewConverter(mathdoc.WithLogger(env.Logger), mathdoc.WithBasicRasterizer())
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	in := mathdoc.Input{
		Content: string(content),
		Type:    sourceType(path, fallback),
		Title:   f.input.title,
		BaseDir: absDir(path),
	}

	var out []byte
	if f.preview {
		fragment, err := conv.Preview(ctx, in)
		if err != nil {
			return err
		}
		out = []byte(fragment + "\n")
	} else {
		data, err := conv.Elements(ctx, in)
		if err != nil {
			return err
		}
		out = append(data, '\n')
	}

	if f.output == "" {
		_, err = env.Stdout.Write(out)
		return err
	}
	// #nosec G306 -- listings are meant to be readable
	if err := os.WriteFile(f.output, out, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
