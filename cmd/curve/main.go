package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kovidgoyal/ambient"
)

type dump struct {
	Parameter float32             `json:"parameter"`
	Curve     ambient.CurveParams `json:"curve"`
	Gain      ambient.GainCurve   `json:"gain"`
	// Diagonal is the output level of each grey input level
	Diagonal [256]uint8 `json:"diagonal"`
}

func new_dump(parameter float32) dump {
	c := ambient.NewCompensator()
	c.Init(parameter, ambient.IdentityColorInfo())
	t := c.Table()
	ans := dump{Parameter: parameter, Curve: ambient.NewCurveParams(parameter), Gain: c.Gain()}
	for i := range ans.Diagonal {
		ans.Diagonal[i] = t[i][i]
	}
	return ans
}

func write(w io.Writer, d dump) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

func main() {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}()
	parameter := flag.Float64("parameter", -1, "ambient light parameter, 0 (dark) to 5 (sunlight)")
	lux := flag.Int("lux", -1, "ambient light sensor reading, used when -parameter is not given")
	flag.Parse()
	p := float32(*parameter)
	switch {
	case *parameter >= 0:
	case *lux >= 0:
		p = ambient.DefaultMeta.DefaultParameter(*lux)
	default:
		fmt.Fprintln(os.Stderr, "usage: go run ./cmd/curve -parameter p | -lux lux")
		os.Exit(1)
	}
	err = write(os.Stdout, new_dump(p))
}
