package main

import (
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared by every command.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logFormat string
}

// inputFlags holds input interpretation flags.
type inputFlags struct {
	inputType string
	title     string
}

// outputFlags holds output destination flags.
type outputFlags struct {
	output string
	format string
	html   bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
	scale       float64
}

// footerFlags holds footer-related flags.
type footerFlags struct {
	position   string
	text       string
	date       string
	pageNumber bool
	enabled    bool
	disabled   bool
}

// styleFlags holds stylesheet flags for the page outputs.
type styleFlags struct {
	style     string
	css       string
	assetPath string
}

// rendererFlags holds PDF rasterizer flags.
type rendererFlags struct {
	engine  string
	timeout time.Duration
}

// convertFlags holds flags for convert and watch.
type convertFlags struct {
	input    inputFlags
	output   outputFlags
	page     pageFlags
	footer   footerFlags
	style    styleFlags
	renderer rendererFlags
	workers  int
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text, json")
}

// addInputFlags adds input flags to a FlagSet.
func addInputFlags(fs *flag.FlagSet, f *inputFlags) {
	fs.StringVar(&f.inputType, "type", "", "input type for unknown extensions: markdown, latex, plain, html")
	fs.StringVar(&f.title, "title", "", "document title (\"\" = first heading)")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVar(&f.format, "to", "", "output format: docx, pdf, html")
	fs.BoolVar(&f.html, "html", false, "also write the intermediate HTML of pdf output")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
	fs.Float64Var(&f.scale, "scale", 0, "print scale (0.1-2.0)")
}

// addFooterFlags adds footer flags to a FlagSet.
func addFooterFlags(fs *flag.FlagSet, f *footerFlags) {
	fs.BoolVar(&f.enabled, "footer", false, "enable the PDF footer")
	fs.StringVar(&f.position, "footer-position", "", "footer position: left, center, right")
	fs.StringVar(&f.text, "footer-text", "", "custom footer text")
	fs.StringVar(&f.date, "footer-date", "", "footer date: \"auto\", \"auto:FORMAT\", or literal")
	fs.BoolVar(&f.pageNumber, "footer-page-number", false, "show page numbers in footer")
	fs.BoolVar(&f.disabled, "no-footer", false, "disable footer")
}

// addStyleFlags adds stylesheet flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.style, "style", "", "style name, CSS file path, or inline CSS")
	fs.StringVar(&f.css, "css", "", "extra CSS file appended after the style")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// addRendererFlags adds rasterizer flags to a FlagSet.
func addRendererFlags(fs *flag.FlagSet, f *rendererFlags) {
	fs.StringVar(&f.engine, "engine", "", "PDF engine: chrome, basic")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "PDF page load timeout (e.g., 30s, 2m)")
}

// addConvertFlags adds every conversion flag group to a FlagSet.
func addConvertFlags(fs *flag.FlagSet, f *convertFlags) {
	addInputFlags(fs, &f.input)
	addOutputFlags(fs, &f.output)
	addPageFlags(fs, &f.page)
	addFooterFlags(fs, &f.footer)
	addStyleFlags(fs, &f.style)
	addRendererFlags(fs, &f.renderer)
}
