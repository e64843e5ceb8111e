package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"badc0de.net/pkg/go-spriteloop/frames"
	"badc0de.net/pkg/go-spriteloop/locate"
	"badc0de.net/pkg/go-spriteloop/loop"
	"badc0de.net/pkg/go-spriteloop/ttesting"
)

// referenceFrame returns a 256x224 frame filled with a shade identifying n.
func referenceFrame(n int) *image.RGBA {
	img := ttesting.NewFrame(locate.ReferenceSize.X, locate.ReferenceSize.Y)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(20 * n)
	}
	return img
}

func withSprite(img *image.RGBA, pattern string, anchor image.Point) *image.RGBA {
	p, ok := locate.Default.Lookup(pattern)
	if !ok {
		panic("no pattern " + pattern)
	}
	for _, px := range p.Pixels(anchor) {
		img.SetRGBA(px.X, px.Y, locate.HatColor)
	}
	return img
}

func writeFrames(t *testing.T, imgs ...image.Image) (string, []frames.Frame) {
	t.Helper()
	dir := t.TempDir()
	for i, img := range imgs {
		path := filepath.Join(dir, fmt.Sprintf("%d.png", i))
		f, err := os.Create(path)
		if err != nil {
			t.Fatalf("creating %s: %v", path, err)
		}
		if img == nil {
			f.WriteString("garbage")
		} else if err := png.Encode(f, img); err != nil {
			t.Fatalf("encoding %s: %v", path, err)
		}
		f.Close()
	}
	fs, err := frames.List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return dir, fs
}

func positions(r *Report) []int {
	var out []int
	for _, o := range r.Frames {
		out = append(out, o.Position)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMakeLoopSkipTake(t *testing.T) {
	_, in := writeFrames(t, referenceFrame(0), referenceFrame(1), referenceFrame(2), referenceFrame(3))

	opts := DefaultOptions()
	opts.Selection = frames.Selection{Skip: 1, Take: 2}
	opts.Profile = loop.Fps60

	var buf bytes.Buffer
	report, err := MakeLoop(in, &buf, opts)
	if err != nil {
		t.Fatalf("MakeLoop: %v", err)
	}
	if got := positions(report); !equalInts(got, []int{1, 2}) {
		t.Errorf("got positions %v; want [1 2]", got)
	}
	if report.Frames[0].Frame.Name != "1.png" {
		t.Errorf("first selected frame is %s; want 1.png", report.Frames[0].Frame.Name)
	}

	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("decoding loop: %v", err)
	}
	if !equalInts(g.Delay, []int{1, 2}) {
		t.Errorf("got delays %v; want [1 2] (10ms, 20ms)", g.Delay)
	}
	ttesting.AssertEqualInt(t, "loop count", g.LoopCount, 0)
	// 256x224 fitted into 112x112.
	ttesting.AssertEqualPoint(t, "size", g.Image[0].Bounds().Size(), image.Pt(112, 98))
}

func TestMakeLoopParityCountsEncodedFrames(t *testing.T) {
	_, in := writeFrames(t,
		withSprite(referenceFrame(0), "facing_up_hat_top", image.Pt(100, 100)),
		referenceFrame(1),
		withSprite(referenceFrame(2), "facing_right_hat_top", image.Pt(60, 120)),
		withSprite(referenceFrame(3), "facing_up_hat_bottom", image.Pt(200, 50)),
	)
	opts := DefaultOptions()
	opts.Region = RegionLocate
	opts.CropSize = image.Pt(64, 64)
	opts.OutSize = image.Point{}
	opts.Profile = loop.Fps30

	var buf bytes.Buffer
	report, err := MakeLoop(in, &buf, opts)
	if err != nil {
		t.Fatalf("MakeLoop: %v", err)
	}
	s := report.Summary()
	ttesting.AssertEqualInt(t, "processed", s.Processed, 3)
	ttesting.AssertEqualInt(t, "not found", s.NotFound, 1)

	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("decoding loop: %v", err)
	}
	if !equalInts(g.Delay, []int{2, 4, 2}) {
		t.Errorf("got delays %v; want [2 4 2]", g.Delay)
	}
	ttesting.AssertEqualPoint(t, "size", g.Image[0].Bounds().Size(), image.Pt(64, 64))
}

func TestMakeLoopNothingToEncode(t *testing.T) {
	_, in := writeFrames(t, referenceFrame(0))
	opts := DefaultOptions()
	opts.Region = RegionLocate

	if _, err := MakeLoop(in, &bytes.Buffer{}, opts); err == nil {
		t.Errorf("MakeLoop with no located frames succeeded")
	}
}

func TestCropFrames(t *testing.T) {
	_, in := writeFrames(t,
		withSprite(referenceFrame(0), "facing_up_hat_top", image.Pt(100, 100)),
		referenceFrame(1),
		nil,
		withSprite(referenceFrame(3), "right_facing_pot_pickup", image.Pt(5, 5)),
		ttesting.NewFrame(320, 240),
	)
	out := t.TempDir()

	opts := DefaultOptions()
	opts.Region = RegionLocate
	opts.CropSize = image.Pt(32, 32)
	opts.OutSize = image.Point{}

	var previewed []string
	opts.OnCrop = func(f frames.Frame, _ image.Image) {
		previewed = append(previewed, f.Name)
	}

	report, err := CropFrames(in, out, opts)
	if err != nil {
		t.Fatalf("CropFrames: %v", err)
	}
	s := report.Summary()
	ttesting.AssertEqualInt(t, "selected", s.Selected, 5)
	ttesting.AssertEqualInt(t, "processed", s.Processed, 2)
	ttesting.AssertEqualInt(t, "not found", s.NotFound, 1)
	ttesting.AssertEqualInt(t, "decode errors", s.DecodeErrors, 1)
	ttesting.AssertEqualInt(t, "bounds", s.Bounds, 1)
	ttesting.AssertEqualInt(t, "skipped", s.Skipped(), 3)
	ttesting.AssertEqualInt(t, "previewed", len(previewed), 2)

	f, err := os.Open(filepath.Join(out, "0.png"))
	if err != nil {
		t.Fatalf("opening crop: %v", err)
	}
	defer f.Close()
	crop, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding crop: %v", err)
	}
	ttesting.AssertEqualPoint(t, "crop size", crop.Bounds().Size(), image.Pt(32, 32))

	// Sprite at (94, 98), centered at (102, 110); the crop starts at (86, 94)
	// so the hat anchor at (100, 100) lands on (14, 6).
	got := color.RGBAModel.Convert(crop.At(14, 6)).(color.RGBA)
	if got != locate.HatColor {
		t.Errorf("got %v at hat anchor; want %v", got, locate.HatColor)
	}

	for _, missing := range []string{"1.png", "2.png", "4.png"} {
		if _, err := os.Stat(filepath.Join(out, missing)); !os.IsNotExist(err) {
			t.Errorf("%s: crop written for skipped frame", missing)
		}
	}
}

func TestCropFramesFixed(t *testing.T) {
	_, in := writeFrames(t, referenceFrame(0), referenceFrame(1))
	out := t.TempDir()

	opts := DefaultOptions()
	opts.Region = RegionFixed
	opts.FixedRect = image.Rect(10, 20, 50, 80)
	opts.OutSize = image.Point{}

	report, err := CropFrames(in, out, opts)
	if err != nil {
		t.Fatalf("CropFrames: %v", err)
	}
	ttesting.AssertEqualInt(t, "processed", report.Summary().Processed, 2)
	for _, o := range report.Frames {
		if o.Crop != opts.FixedRect {
			t.Errorf("%s: got crop %v; want %v", o.Frame.Name, o.Crop, opts.FixedRect)
		}
	}
}

func TestWorkersKeepOrder(t *testing.T) {
	var imgs []image.Image
	for i := 0; i < 12; i++ {
		img := referenceFrame(i)
		if i%3 != 0 {
			withSprite(img, "facing_right_hat_jiggling", image.Pt(20+10*i, 30+5*i))
		}
		imgs = append(imgs, img)
	}
	_, in := writeFrames(t, imgs...)

	opts := DefaultOptions()
	opts.Region = RegionLocate
	opts.CropSize = image.Pt(48, 48)
	opts.Selection = frames.Selection{Skip: 1, Take: frames.Unbounded, Stride: true}

	var seqBuf, parBuf bytes.Buffer
	seq, err := MakeLoop(in, &seqBuf, opts)
	if err != nil {
		t.Fatalf("sequential MakeLoop: %v", err)
	}
	opts.Workers = 4
	par, err := MakeLoop(in, &parBuf, opts)
	if err != nil {
		t.Fatalf("parallel MakeLoop: %v", err)
	}

	if !equalInts(positions(seq), positions(par)) {
		t.Errorf("parallel order %v differs from sequential %v", positions(par), positions(seq))
	}
	if !equalInts(positions(seq), []int{1, 3, 5, 7, 9, 11}) {
		t.Errorf("got positions %v; want odd positions", positions(seq))
	}
	for i := range seq.Frames {
		if seq.Frames[i].State != par.Frames[i].State || seq.Frames[i].Sprite != par.Frames[i].Sprite {
			t.Errorf("frame %d: sequential %v, parallel %v", i, seq.Frames[i], par.Frames[i])
		}
	}
}

func TestFit(t *testing.T) {
	ttesting.AssertEqualPoint(t, "reference", Fit(image.Pt(256, 224), image.Pt(112, 112)), image.Pt(112, 98))
	ttesting.AssertEqualPoint(t, "upscale", Fit(image.Pt(16, 24), image.Pt(64, 64)), image.Pt(43, 64))
	ttesting.AssertEqualPoint(t, "sliver", Fit(image.Pt(1000, 1), image.Pt(10, 10)), image.Pt(10, 1))
}

func TestCropName(t *testing.T) {
	for in, want := range map[string]string{
		"1.png":  "1.png",
		"2.JPG":  "2.JPG",
		"3.bmp":  "3.png",
		"4.webp": "4.png",
	} {
		if got := CropName(in); got != want {
			t.Errorf("CropName(%q) = %q; want %q", in, got, want)
		}
	}
}
