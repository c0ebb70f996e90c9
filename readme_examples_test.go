package texdoc_test

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/tsawler/texdoc"
	"github.com/tsawler/texdoc/frame"
	"github.com/tsawler/texdoc/latex"
	"github.com/tsawler/texdoc/render"
)

// These examples verify the README code samples compile correctly.
// They are not meant to be run as actual tests since they require files
// and a TeX installation.

func Example_fromManifest() {
	tex, err := texdoc.Open("report.yaml").Tex()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(tex)
}

func Example_render() {
	res, err := texdoc.Open("report.yaml").
		ConfigFile("texdoc.yaml"). // Optional configuration file
		Engine("lualatex").        // Any LaTeX engine on PATH
		Progress(os.Stderr).       // Pass updates on the terminal
		Logger(slog.Default()).
		Render(context.Background(), "report.pdf")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("wrote", res.Output, "in", res.Duration)
}

func Example_markdown() {
	// A single Markdown or HTML file becomes a one-part document.
	err := texdoc.Open("notes.md").Export("notes.tex")
	_ = err
}

func Example_buildInCode() {
	doc, err := latex.NewDocument(
		latex.NewPreamble(latex.PreambleOptions{Title: "Sales", Author: "Finance"}),
		latex.DefaultDocumentOptions(),
	)
	if err != nil {
		log.Fatal(err)
	}

	f, err := frame.ReadCSVFile("sales.csv", frame.DefaultCSVOptions())
	if err != nil {
		log.Fatal(err)
	}
	table, err := latex.NewTable(latex.Longtable, "tab:sales",
		latex.TableData(f),
		latex.TableCaption("Sales by region"),
		latex.TableZebra(),
	)
	if err != nil {
		log.Fatal(err)
	}

	sec, _ := latex.NewSection("Sales", latex.SectionLink(latex.AnchorTOC))
	if err := sec.Add(latex.NewText("Figures are in thousands."), table); err != nil {
		log.Fatal(err)
	}
	if err := doc.Add(sec); err != nil {
		log.Fatal(err)
	}

	r, err := render.New(render.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}
	if _, err := r.Render(context.Background(), doc, "sales.pdf"); err != nil {
		log.Fatal(err)
	}
}

func Example_errorHandling() {
	// Panic on error (for scripts/tests)
	tex := texdoc.Must(texdoc.Open("report.yaml").Tex())
	_ = tex
}
