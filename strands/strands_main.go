package main

import (
	"flag"
	"os"
	"runtime"

	"github.com/canmom/noodles"
	"github.com/canmom/noodles/strands/rt/app"
	"github.com/canmom/noodles/strands/rt/core"
	"github.com/canmom/noodles/strands/rt/gpu"
	"github.com/canmom/noodles/strands/rt/shaders"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/profile"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "TOML configuration file")
	variantFlag := flag.String("variant", "", "Instance generation: precompute or recompute (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging and frame statistics")
	profileMode := flag.String("profile", "", "Write a cpu or mem profile to the working directory")
	checkShaders := flag.Bool("check-shaders", false, "Compile the generated WGSL to SPIR-V with naga and exit")
	flag.Parse()

	cfg := noodles.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = noodles.LoadConfig(*configPath); err != nil {
			panic(err)
		}
	}
	if *variantFlag != "" {
		cfg.Strands.Variant = *variantFlag
	}
	if *debug {
		cfg.Debug = true
	}
	log := noodles.NewDefaultLogger("strands", cfg.Debug)

	topology, err := cfg.Validate()
	if err != nil {
		panic(err)
	}
	variant, err := gpu.ParseVariant(cfg.Strands.Variant)
	if err != nil {
		panic(err)
	}
	palette, err := core.ParsePalette(cfg.Strands.Palette)
	if err != nil {
		panic(err)
	}
	noodle := cfg.Noodle(topology)

	if *checkShaders {
		os.Exit(compileShaders(log.Named("shaders"), shaders.Params{
			Topology: topology,
			Radius:   cfg.Strands.Radius,
			Palette:  palette,
			Noodle:   noodle,
		}))
	}

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	default:
		panic("unknown profile mode " + *profileMode)
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	target, err := app.NewWindowTarget(window)
	if err != nil {
		panic(err)
	}
	defer target.Release()

	pipelines, err := gpu.New(target.Device, gpu.Options{
		Topology:    topology,
		Variant:     variant,
		ColorFormat: target.Format(),
		Radius:      cfg.Strands.Radius,
		Palette:     palette,
		Curve:       cfg.Curve(topology),
		Noodle:      noodle,
	}, log)
	if err != nil {
		panic(err)
	}
	defer pipelines.Release()

	renderer := app.NewRenderer(target, pipelines, core.NewOrbitCamera(cfg.CameraTarget(), cfg.Camera.TimeScale), log)
	renderer.StatsPeriod = cfg.StatsPeriod()
	renderer.Profiler.SetCount("Instances", int(topology.Instances()))

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		if err := renderer.Resize(width, height); err != nil {
			log.Errorf("resize: %v", err)
		}
	})

	var windowed [4]int
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyF11:
			if w.GetMonitor() != nil {
				w.SetMonitor(nil, windowed[0], windowed[1], windowed[2], windowed[3], 0)
				return
			}
			windowed[0], windowed[1] = w.GetPos()
			windowed[2], windowed[3] = w.GetSize()
			monitor := glfw.GetPrimaryMonitor()
			mode := monitor.GetVideoMode()
			w.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
		}
	})

	clock := noodles.NewTime()
	for !window.ShouldClose() {
		glfw.PollEvents()
		clock.Tick()
		if err := renderer.RenderFrame(clock.Seconds()); err != nil {
			log.Errorf("%v", err)
			break
		}
	}
}

// compileShaders validates both generated modules and returns the exit code.
func compileShaders(log noodles.Logger, params shaders.Params) int {
	code := 0
	for _, module := range []struct {
		name, source string
	}{
		{"tube", shaders.TubeSource(params)},
		{"instances", shaders.InstancesSource(params)},
	} {
		spirv, err := shaders.Compile(module.source)
		if err != nil {
			log.Errorf("%s: %v", module.name, err)
			code = 1
			continue
		}
		log.Infof("%s: %d bytes of SPIR-V", module.name, len(spirv))
	}
	return code
}
