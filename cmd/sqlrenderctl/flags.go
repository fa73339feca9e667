package main

import (
	"flag"
	"io"
)

type renderOpts struct {
	template string
	bindings string
}

func newRenderFlagSet(stderr io.Writer) (*flag.FlagSet, *renderOpts) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := &renderOpts{}
	fs.StringVar(&opts.template, "template", "", "Path to a template file")
	fs.StringVar(&opts.bindings, "bind", "", "Comma-separated name=value parameter bindings")
	return fs, opts
}

type translateOpts struct {
	dialect    string
	tempSchema string
	explain    bool
}

func newTranslateFlagSet(stderr io.Writer) (*flag.FlagSet, *translateOpts) {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := &translateOpts{}
	fs.StringVar(&opts.dialect, "dialect", "", "Target dialect identifier")
	fs.StringVar(&opts.tempSchema, "temp-schema", "", "Schema for #name temp-table emulation")
	fs.BoolVar(&opts.explain, "explain", false, "Print the fired-rule trace to stderr")
	return fs, opts
}

type runOpts struct {
	template   string
	bindings   string
	dialect    string
	tempSchema string
	explain    bool
}

func newRunFlagSet(stderr io.Writer) (*flag.FlagSet, *runOpts) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := &runOpts{}
	fs.StringVar(&opts.template, "template", "", "Path to a template file")
	fs.StringVar(&opts.bindings, "bind", "", "Comma-separated name=value parameter bindings")
	fs.StringVar(&opts.dialect, "dialect", "", "Target dialect identifier")
	fs.StringVar(&opts.tempSchema, "temp-schema", "", "Schema for #name temp-table emulation")
	fs.BoolVar(&opts.explain, "explain", false, "Print the fired-rule trace to stderr")
	return fs, opts
}
