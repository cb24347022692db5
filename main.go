package main

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"runtime/pprof"

	draw9 "9fans.net/go/draw"
	"9fans.net/go/plan9"
	"9fans.net/go/plan9/client"
	"9fans.net/go/plumb"
	xdraw "golang.org/x/image/draw"
)

const (
	progName = "pane"

	darkgrey = draw9.Color(uint32(0x666666FF))
	yellow   = draw9.Color(uint32(0xFFFF00FF))

	leftArrowKey  = 61457
	rightArrowKey = 61458
	escKey        = 27
)

var (
	windowSizeFlag = flag.String("w", "1300x1000", "set window size")
	formatFlag     = flag.String("t", "", "decode every file as this `format` (png, jpeg, gif, bmp, tiff, webp)")
	silent         = flag.Bool("q", false, "silent mode, do not log anything")
	verbose        = flag.Bool("v", false, "verbose mode, log statistics for cache and rescaling")
	fast           = flag.Bool("f", false, "choose fast over best algorithms for scaling")
	pageSize       = flag.Int("p", 2, "set page size for prefetching")
	setMemoryLimit = flag.Bool("m", false, "run with 1G soft memory limit. Overrides GOMEMLIMIT")
)

var (
	enableProfiler = flag.Bool("profile", false, "run with the profiler enabled")
	cpuprofile     = flag.String("cpuprofile", "cpu.prof", "write cpu profile to `file`")
	memprofile     = flag.String("memprofile", "mem.prof", "write memory profile to `file`")
)

var (
	formatHint Format

	plumber *client.Fid
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s [-f|-q|-v|-m] [-w size] [-t format] [file|dir]..

%s shows images one at a time, rescaled to fill the window.

Flags:
`, progName, progName)
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetPrefix("")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	if *enableProfiler {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	windowSize, ok := stringToPoint(*windowSizeFlag)
	if !ok {
		log.Fatalf("cannot compute window size from %s", *windowSizeFlag)
	}

	var err error
	formatHint, err = ParseFormat(*formatFlag)
	if err != nil {
		log.Fatalf("cannot use format %s: %v", *formatFlag, err)
	}

	if *setMemoryLimit {
		debug.SetMemoryLimit(1 << 30) // or GOMEMLIMIT=1GiB
	}

	if *silent {
		log.SetOutput(io.Discard)
	}

	if *fast {
		panelScaler = xdraw.BiLinear
	}

	var slides []*Slide
	for _, p := range flag.Args() {
		slides = append(slides, addImagesOfPath(p)...)
	}
	if len(slides) == 0 {
		os.Exit(0)
	}

	connectToPlumber()
	dctl := connectToDisplay(windowSize)
	dctl.cls()

	v := NewPanelView(slides, 0)
	v.Connect(dctl)
	v.Handle()
	v.Free()

	if *enableProfiler {
		f, err := os.Create(*memprofile)
		if err != nil {
			log.Fatal("could not create memory profile: ", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile: ", err)
		}
	}
}

// isImageFile checks the file suffix to check if it is an image. A
// bare dot is no suffix: "photo." names no format.
func isImageFile(name string) bool {
	ext := filepath.Ext(name)
	if ext == "" || ext == "." {
		return false
	}
	_, err := ParseFormat(ext)
	return err == nil
}

// hintFor picks the decode hint for path: the -t format when given,
// otherwise the file suffix, otherwise sniffing.
func hintFor(path string) Format {
	if formatHint != FormatAny {
		return formatHint
	}
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return FormatAny
	}
	return f
}

// addImagesOfPath adds the image at path, descending it if a
// directory. A file named directly is taken as is, even with an
// unknown suffix; its contents decide at load time.
func addImagesOfPath(name string) []*Slide {
	info, err := os.Stat(name)
	if err != nil {
		log.Printf("addImagesOfPath: cannot stat file: %v", err)
		return nil
	}
	if info.IsDir() {
		return scanForImages(name)
	}
	if !info.Mode().IsRegular() {
		log.Printf("addImagesOfPath: ignoring special file %s", name)
		return nil
	}
	return []*Slide{NewSlide(name, hintFor(name))}
}

// scanForImages walks dir and adds the images found.
func scanForImages(dir string) []*Slide {
	var slides []*Slide

	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			log.Printf("scanForImages: ignoring special file %s", path)
			return nil
		}
		if !isImageFile(path) {
			return nil
		}
		slides = append(slides, NewSlide(path, hintFor(path)))
		return nil
	}

	if err := filepath.WalkDir(dir, walkFn); err != nil {
		log.Printf("scanForImages: %s: %v", dir, err)
	}

	return slides
}

func connectToPlumber() {
	var err error
	plumber, err = plumb.Open("send", plan9.OWRITE|plan9.OCEXEC)
	if err != nil {
		log.Printf("plumber not available: %v", err)
	}
}

func plumbImage(s string) {
	if plumber == nil {
		log.Printf("plumber not available")
		return
	}

	m := plumb.Message{
		Src:  progName,
		Dir:  filepath.Dir(s),
		Type: "text",
		Data: []byte(s),
	}
	if err := m.Send(plumber); err != nil {
		log.Printf("plumber: %v", err)
	}
}
