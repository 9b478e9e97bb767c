package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kovidgoyal/go-parallel"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kovidgoyal/ambient"
	"github.com/kovidgoyal/ambient/config"
)

// output_path is where the compensated version of input is written.
func output_path(cfg *config.Config, input string) string {
	ext := filepath.Ext(input)
	if cfg.OutputFormat != ambient.UNKNOWN {
		ext = cfg.OutputFormat.Ext()
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + cfg.Suffix + ext
	dir := cfg.OutputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base)
}

func process(cfg *config.Config, c *ambient.Compensator, input string) (string, error) {
	img, err := ambient.Open(input, cfg.DecodeOptions()...)
	if err != nil {
		return "", err
	}
	if img.NonSRGB {
		log.Warn().Str("path", input).Msg("image is not sRGB, compensation assumes sRGB")
	}
	if !cfg.PreserveAlpha && !ambient.IsOpaque(img.First()) {
		log.Warn().Str("path", input).Msg("image has transparency that will be made opaque, use -preserve-alpha to keep it")
	}
	img.Compensate(c)
	output := output_path(cfg, input)
	if err = img.Save(output, cfg.EncodeOptions()...); err != nil {
		return "", err
	}
	return output, nil
}

type options struct {
	config, env_file           string
	verbose                    bool
	parameter                  float64
	lux                        int
	pixel_order                string
	preserve_alpha, orient     bool
	max_size, quality, workers int
	output_dir, format, suffix string
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.config, "config", "", "path to a YAML config file")
	fs.StringVar(&o.env_file, "env-file", "", "load AMBIENT_* variables from this .env file instead of ./.env")
	fs.BoolVar(&o.verbose, "v", false, "log debug output")
	fs.Float64Var(&o.parameter, "parameter", 0, "ambient light parameter, 0 (dark) to 5 (sunlight)")
	fs.IntVar(&o.lux, "lux", 0, "ambient light sensor reading, used when -parameter is not given")
	fs.StringVar(&o.pixel_order, "pixel-order", "ARGB", "in-memory pixel layout handed to the algorithm: ARGB, ABGR, RGBA or BGRA. A debugging aid, output files are the same for every order")
	fs.BoolVar(&o.preserve_alpha, "preserve-alpha", false, "keep the alpha channel instead of making output opaque")
	fs.BoolVar(&o.orient, "auto-orient", true, "apply the EXIF orientation")
	fs.IntVar(&o.max_size, "max-size", 0, "shrink images larger than this, 0 for no limit")
	fs.IntVar(&o.quality, "jpeg-quality", 95, "JPEG output quality 1-100")
	fs.IntVar(&o.workers, "workers", 0, "number of images processed at once, 0 for one per CPU")
	fs.StringVar(&o.output_dir, "output-dir", "", "directory for output files, defaults to the input's directory")
	fs.StringVar(&o.format, "format", "", "output format, defaults to the input's format")
	fs.StringVar(&o.suffix, "suffix", "-ambient", "appended to the input file name")
}

// apply copies the flags that were given on the command line over cfg.
func (o *options) apply(fs *flag.FlagSet, cfg *config.Config) (err error) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "parameter":
			p := float32(o.parameter)
			cfg.Parameter = &p
		case "lux":
			cfg.Lux = &o.lux
		case "pixel-order":
			err = errors.Join(err, cfg.PixelOrder.UnmarshalText([]byte(o.pixel_order)))
		case "preserve-alpha":
			cfg.PreserveAlpha = o.preserve_alpha
		case "auto-orient":
			cfg.AutoOrient = o.orient
		case "max-size":
			cfg.MaxSize = o.max_size
		case "jpeg-quality":
			cfg.JPEGQuality = o.quality
		case "workers":
			cfg.Workers = o.workers
		case "output-dir":
			cfg.OutputDir = o.output_dir
		case "format":
			err = errors.Join(err, cfg.OutputFormat.UnmarshalText([]byte(o.format)))
		case "suffix":
			cfg.Suffix = o.suffix
		}
	})
	return
}

func main() {
	var err error
	defer func() {
		if err != nil {
			log.Error().Err(err).Msg("failed")
			os.Exit(1)
		}
	}()
	fs := flag.NewFlagSet("ambient", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: ambient [flags] image...")
		fs.PrintDefaults()
	}
	var opts options
	opts.register(fs)
	fs.Parse(os.Args[1:])

	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).Level(level)
	ambient.SetLogger(&log.Logger)

	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	if opts.config != "" {
		if cfg, err = config.Load(opts.config); err != nil {
			return
		}
	}
	if opts.env_file != "" {
		err = config.LoadEnv(opts.env_file)
	} else {
		err = config.LoadEnv()
	}
	if err != nil {
		return
	}
	if err = cfg.ApplyEnv(os.LookupEnv); err != nil {
		return
	}
	if err = opts.apply(fs, cfg); err != nil {
		return
	}
	if err = cfg.Validate(); err != nil {
		return
	}
	p := cfg.EffectiveParameter(ambient.DefaultMeta)
	log.Debug().Float32("parameter", p).Float32("lux", ambient.Lux(p)).Stringer("pixel_order", cfg.PixelOrder).Msg("effective settings")

	inputs := fs.Args()
	errs := make([]error, len(inputs))
	err = parallel.Run_in_parallel_over_range(cfg.Workers, func(start, limit int) {
		c := ambient.NewCompensator(cfg.CompensatorOptions()...)
		c.Init(p, ambient.IdentityColorInfo())
		for i := start; i < limit; i++ {
			output, perr := process(cfg, c, inputs[i])
			if perr != nil {
				errs[i] = perr
				log.Warn().Err(perr).Str("path", inputs[i]).Msg("skipped")
				continue
			}
			log.Info().Str("input", inputs[i]).Str("output", output).Msg("compensated")
		}
	}, 0, len(inputs))
	if err != nil {
		return
	}
	failed := 0
	for _, e := range errs {
		if e != nil {
			failed++
		}
	}
	if failed > 0 {
		err = fmt.Errorf("%d of %d images could not be processed", failed, len(inputs))
	}
}
