package main

import(
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/abworrall/symalign/pkg/levels"
	"github.com/abworrall/symalign/pkg/symalign"
)

var(
	fVerbosity int
	fOutput string
	fGhost string
	fHistogram string
	fPreview string
	fMode string
	fLevels string
	fDrag string
	fAuto bool
	fClip float64
	fRotate float64
	fX float64
	fY float64
	fMirrorH bool
	fMirrorV bool
	fProbe int
	fWorkers int
	fParity bool
)

func init() {
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.StringVar(&fOutput, "o", "aligned-fusion-ready.png", "output file (.png, .tif or .hdr)")
	flag.StringVar(&fGhost, "ghost", "", "also write the mirrored ghost layer to this file")
	flag.StringVar(&fHistogram, "hist", "", "render the levels panel to this PNG")
	flag.StringVar(&fPreview, "preview", "", "write the live preview filter graph to this file (.svg or .yaml)")

	flag.StringVar(&fMode, "mode", "rgb", "channel to edit: rgb, red, green or blue")
	flag.StringVar(&fLevels, "levels", "", "levels for the channel, as black,mid,white[,outblack,outwhite]")
	flag.StringVar(&fDrag, "drag", "", "handle drags to replay, e.g. black=30,mid=100,white=220")
	flag.BoolVar(&fAuto, "auto", false, "set black and white points from the histogram")
	flag.Float64Var(&fClip, "clip", levels.DefaultClipFraction, "auto levels clips this fraction off each end")

	flag.Float64Var(&fRotate, "rotate", 0, "rotate the layer by this many degrees, clockwise")
	flag.Float64Var(&fX, "x", 0, "move the layer right by this many pixels")
	flag.Float64Var(&fY, "y", 0, "move the layer down by this many pixels")
	flag.BoolVar(&fMirrorH, "mirrorh", true, "ghost layer is mirrored left-right")
	flag.BoolVar(&fMirrorV, "mirrorv", false, "ghost layer is mirrored top-bottom")

	flag.IntVar(&fProbe, "probe", 300, "width of the downsampled copy used for the histogram")
	flag.IntVar(&fWorkers, "workers", 0, "goroutines for the export pass (0 means one per CPU)")
	flag.BoolVar(&fParity, "parity", false, "check the live preview against the export path")
}

// applyFlags copies any flags given on the command line over the
// config, which may have come from a yaml file.
func applyFlags(cfg *symalign.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":       cfg.Verbosity = fVerbosity
		case "o":       cfg.OutputFilename = fOutput
		case "ghost":   cfg.GhostFilename = fGhost
		case "hist":    cfg.HistogramFilename = fHistogram
		case "preview": cfg.PreviewFilename = fPreview
		case "clip":    cfg.ClipFraction = fClip
		case "rotate":  cfg.Layout.Rotation = fRotate
		case "x":       cfg.Layout.X = fX
		case "y":       cfg.Layout.Y = fY
		case "mirrorh": cfg.Layout.MirrorH = fMirrorH
		case "mirrorv": cfg.Layout.MirrorV = fMirrorV
		case "probe":   cfg.ProbeWidth = fProbe
		case "workers": cfg.Workers = fWorkers
		}
	})
}

// parseLevels reads "black,mid,white[,outblack,outwhite]".
func parseLevels(s string, base levels.Settings) (levels.Settings, error) {
	vals := []int{}
	for _, str := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return base, fmt.Errorf("levels '%s': %v", s, err)
		}
		vals = append(vals, v)
	}

	switch len(vals) {
	case 5:
		base.OutputBlack, base.OutputWhite = vals[3], vals[4]
		fallthrough
	case 3:
		base.InputBlack, base.Midpoint, base.InputWhite = vals[0], vals[1], vals[2]
	default:
		return base, fmt.Errorf("levels '%s': want 3 or 5 values, got %d", s, len(vals))
	}

	if !base.ControlPoints().Ordered() || base.InputBlack < 0 || base.InputWhite > 255 {
		return base, fmt.Errorf("levels '%s': need 0 <= black < mid < white <= 255", s)
	}
	if base.OutputBlack < 0 || base.OutputBlack >= base.OutputWhite || base.OutputWhite > 255 {
		return base, fmt.Errorf("levels '%s': need 0 <= outblack < outwhite <= 255", s)
	}
	return base, nil
}

// replayDrags runs "handle=value,..." through the session's drag model.
func replayDrags(s *symalign.Session, list string) error {
	for _, item := range strings.Split(list, ",") {
		kv := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(kv) != 2 {
			return fmt.Errorf("drag '%s': want handle=value", item)
		}
		h, err := levels.ParseHandle(kv[0])
		if err != nil {
			return err
		}
		v, err := strconv.Atoi(kv[1])
		if err != nil {
			return fmt.Errorf("drag '%s': %v", item, err)
		}
		if err := s.Drag(h, v); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	flag.Parse()
	log.Printf("symalign starting\n")

	s := symalign.NewSession()
	if err := s.LoadFilesAndDirs(flag.Args()...); err != nil {
		log.Fatal(err)
	}
	if !s.HasImage() {
		log.Fatal("no image given (png, jpeg, tiff or hdr)")
	}

	applyFlags(&s.Config)
	s.Refresh()

	mode, err := levels.ParseChannelMode(fMode)
	if err != nil {
		log.Fatal(err)
	}
	s.SetMode(mode)

	if fAuto {
		s.AutoLevels()
	}
	if fLevels != "" {
		ls, err := parseLevels(fLevels, s.Settings())
		if err != nil {
			log.Fatal(err)
		}
		s.Update(func(cur *levels.Settings) { *cur = ls })
	}
	if fDrag != "" {
		if err := replayDrags(s, fDrag); err != nil {
			log.Fatal(err)
		}
	}

	if s.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", s.Config.AsYaml())
		log.Printf("%s\n", s)
	}

	if fParity {
		log.Printf("%s\n", s.Parity())
	}
	if s.HistogramFilename != "" {
		if err := s.RenderHistogram(s.HistogramFilename); err != nil {
			log.Fatal(err)
		}
	}
	if s.PreviewFilename != "" {
		if err := s.WritePreview(s.PreviewFilename); err != nil {
			log.Fatal(err)
		}
	}
	if s.GhostFilename != "" {
		if err := s.GhostToFile(s.GhostFilename); err != nil {
			log.Fatal(err)
		}
	}

	if err := s.ExportToFile(s.OutputFilename); err != nil {
		log.Fatal(err)
	}
}
