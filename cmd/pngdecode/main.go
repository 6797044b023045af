// Command pngdecode decodes a PNG file and prints a one-line summary of
// the decoded image. It is a thin external collaborator over the png
// package: all of the actual decoding happens there.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/kaelbrook/pngdecode/png"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("pngdecode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "log per-chunk debug traces")
	srgb := fs.Bool("srgb", false, "apply the sRGB re-encoding pass when the file's gAMA differs from 45455")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: pngdecode [-v] [-srgb] <path-to-png>")
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	path := fs.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(stderr, "pngdecode: %v\n", err)
		return 1
	}
	defer f.Close()

	dec := &png.Decoder{Logger: logger}
	img, err := dec.Decode(f)
	if err != nil {
		var de *png.DecodeError
		if errors.As(err, &de) {
			fmt.Fprintf(stderr, "pngdecode: %s: %s\n", de.Kind, de.Message)
		} else {
			fmt.Fprintf(stderr, "pngdecode: %v\n", err)
		}
		return 1
	}

	if *srgb && img.HasGamma && img.Gamma != 45455 {
		png.ApplySRGB(img)
	}

	fmt.Fprintf(stdout, "%s: %dx%d %s, %d bytes\n", path, img.Width, img.Height, img.Format, len(img.Pixels))
	return 0
}
