// Command spriteloop crops numbered gameplay frames around the player sprite
// or assembles them into a looping GIF.
package main

import (
	"flag"
	"fmt"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"

	"badc0de.net/pkg/go-spriteloop/config"
	"badc0de.net/pkg/go-spriteloop/frames"
	"badc0de.net/pkg/go-spriteloop/imageprint"
	"badc0de.net/pkg/go-spriteloop/pipeline"
)

var (
	previewMode = flag.String("preview_mode", "24bit", "How --preview draws crops: 24bit, 256, none or rasterm")
	downsize    = flag.Bool("downsize", true, "Shrink previews to fit the terminal")
)

func main() {
	cfg := config.RegisterFlags(flag.CommandLine)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if err := cfg.Validate(); err != nil {
		glog.Exitf("%v", err)
	}

	in, err := frames.List(cfg.InputDir())
	if err != nil {
		glog.Exitf("listing frames: %v", err)
	}
	if len(in) == 0 {
		glog.Exitf("no frames in %q", cfg.InputDir())
	}

	opts := cfg.PipelineOptions()
	if cfg.Preview {
		mode, err := imageprint.ParseMode(*previewMode)
		if err != nil {
			glog.Exitf("%v", err)
		}
		opts.OnCrop = previewer(mode)
	}

	var report *pipeline.Report
	switch cfg.Op() {
	case config.OpCrop:
		report, err = pipeline.CropFrames(in, cfg.OutputPath(), opts)
	case config.OpLoop:
		report, err = pipeline.WriteLoop(in, cfg.OutputPath(), opts)
	}
	if report != nil {
		glog.Infof("%s %s: %v", cfg.Op(), cfg.ImageDir, report.Summary())
	}
	if err != nil {
		glog.Exitf("%s %s: %v", cfg.Op(), cfg.ImageDir, err)
	}
	fmt.Fprintln(os.Stdout, cfg.OutputPath())
}
