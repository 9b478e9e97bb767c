package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/kovidgoyal/ambient"
)

// save_frames writes every frame of img as <prefix>-<label>-NNNNN.png.
func save_frames(img *ambient.Image, prefix, label string) error {
	for _, f := range img.Frames {
		if err := ambient.Save(f.Image, fmt.Sprintf("%s-%s-%05d.png", prefix, label, f.Number)); err != nil {
			return err
		}
	}
	return nil
}

func run(input, output_prefix string, parameter float32) (err error) {
	img, err := ambient.Open(input)
	if err != nil {
		return
	}
	b, err := json.MarshalIndent(img, "", "  ")
	if err != nil {
		return
	}
	if err = os.WriteFile(fmt.Sprintf("%s-metadata.json", output_prefix), b, 0o666); err != nil {
		return
	}
	cimg := img.Clone()
	cimg.Coalesce()
	if err = save_frames(cimg, output_prefix, "coalesced"); err != nil {
		return
	}
	c := ambient.NewCompensator()
	c.Init(parameter, ambient.IdentityColorInfo())
	cimg.Compensate(c)
	return save_frames(cimg, output_prefix, "compensated")
}

func main() {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}()
	parameter := flag.Float64("parameter", 0, "ambient light parameter, 0 (dark) to 5 (sunlight)")
	flag.Parse()
	if flag.NArg() == 0 || flag.NArg() > 2 {
		fmt.Fprintln(os.Stderr, "usage: go run ./cmd/frames [-parameter p] input-file [output-prefix]")
		os.Exit(1)
	}
	output_prefix := flag.Arg(0)
	if flag.NArg() == 2 {
		output_prefix = flag.Arg(1)
	}
	if err = run(flag.Arg(0), output_prefix, float32(*parameter)); err == nil {
		fmt.Printf("Frames decoded to %s-{coalesced,compensated}-*.png\n", output_prefix)
	}
}
