package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/PixPMusic/nocturn-studio/internal/config"
	"github.com/PixPMusic/nocturn-studio/internal/engine"
	"github.com/PixPMusic/nocturn-studio/internal/hardware"
	"github.com/PixPMusic/nocturn-studio/internal/midi"
	"github.com/PixPMusic/nocturn-studio/internal/startup"
	"github.com/PixPMusic/nocturn-studio/internal/surface"
	"github.com/PixPMusic/nocturn-studio/internal/tray"
	"github.com/PixPMusic/nocturn-studio/internal/window"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	scriptDir, err := cfg.ResolvedScriptDir()
	if err != nil {
		log.Fatalf("Failed to resolve script directory: %v", err)
	}

	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "generate":
		err = runGenerate(args[1:], scriptDir)
	case "validate":
		err = runValidate(args[1:])
	case "ports":
		runPorts(os.Stdout)
	default:
		err = runApp(cfg, scriptDir, args)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

// openOutput opens the bridge output, falling back to an in-memory
// recorder so the panel keeps working without MIDI
func openOutput(m *midi.Manager, cfg *config.Config) *midi.Sender {
	send, err := m.OpenOutput(cfg.OutPort, cfg.VirtualPorts)
	if err != nil {
		log.Printf("[midi] Failed to open output '%s': %v. Using mock output.", cfg.OutPort, err)
		return midi.NewSender("mock", midi.NewRecorder(true).Send)
	}
	return midi.NewSender(cfg.OutPort, send)
}

// connectDevice connects to the Nocturn, falling back to a mock device
func connectDevice(ctx context.Context, useMock bool) hardware.Device {
	if !useMock {
		usb := hardware.NewUSBDevice()
		err := usb.Connect(ctx)
		if err == nil {
			return usb
		}
		log.Printf("[hardware] %v. Using mock device.", err)
	}

	mock := hardware.NewMockDevice()
	if err := mock.Connect(ctx); err != nil {
		log.Printf("[hardware] Failed to connect mock device: %v", err)
	}
	return mock
}

// presetMappings returns the selected preset's mappings, nil for defaults
func presetMappings(cfg *config.Config) map[string]engine.Mapping {
	if p := cfg.CurrentPreset(); p != nil {
		log.Printf("Using preset '%s'", p.Name)
		return p.Mappings
	}
	return nil
}

func runApp(cfg *config.Config, scriptDir string, args []string) error {
	fs := flag.NewFlagSet("nocturn-studio", flag.ContinueOnError)
	variantName := fs.String("variant", cfg.Variant, "surface variant to run")
	useMock := fs.Bool("mock", false, "do not look for the hardware")
	if err := fs.Parse(args); err != nil {
		return err
	}

	variant, err := surface.Lookup(*variantName)
	if err != nil {
		return err
	}
	desc := surface.BuildVariant(variant)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize MIDI manager
	midiManager := midi.NewManager()
	defer midiManager.Close()

	sender := openOutput(midiManager, cfg)
	device := connectDevice(ctx, *useMock)

	bridge := NewBridge(desc, device, sender.Send, presetMappings(cfg))
	bridge.SetLEDFeedback(cfg.LEDFeedback)
	defer bridge.Close()

	stopListening, err := midiManager.StartListening(cfg.InPort, cfg.VirtualPorts, bridge.HandleHostMessage)
	if err != nil {
		log.Printf("[midi] Host feedback disabled: %v", err)
	} else {
		defer stopListening()
	}

	// Create Fyne app
	fyneApp := app.NewWithID("com.pixpmusic.nocturnstudio")

	var panel *window.Panel
	panel = window.NewPanel(fyneApp, cfg, desc, window.Callbacks{
		OnInput: bridge.Engine().HandleEvent,
		OnSavePreset: func(name string) {
			cfg.SavePreset(name, bridge.Engine().Mappings())
			saveConfig(cfg)
		},
		OnLoadPreset: func(id string) {
			m, err := cfg.LoadPreset(id)
			if err != nil {
				log.Printf("Failed to load preset: %v", err)
				return
			}
			bridge.Engine().Load(m)
			saveConfig(cfg)
			panel.SetStatus(fmt.Sprintf("Loaded preset %s", cfg.CurrentPreset().Name))
		},
	})
	bridge.OnValue(panel.SetValue)

	menu := tray.Menu(desc.Device, cfg.LEDFeedback, cfg.OpenAtStartup, tray.Callbacks{
		OnOpen: func() {
			panel.Show()
		},
		OnGenerate: func() {
			if err := generateScripts(log.Writer(), scriptDir, []surface.Variant{variant}); err != nil {
				log.Printf("Failed to generate scripts: %v", err)
				return
			}
			panel.SetStatus(fmt.Sprintf("Scripts written to %s", scriptDir))
		},
		OnToggleLEDs: func(on bool) {
			bridge.SetLEDFeedback(on)
			cfg.LEDFeedback = on
			saveConfig(cfg)
		},
		OnToggleStartup: func(on bool) {
			update := startup.Disable
			if on {
				update = func() error { return startup.Enable("-variant", variant.Name) }
			}
			if err := update(); err != nil {
				log.Printf("Failed to update startup entry: %v", err)
			}
			cfg.OpenAtStartup = on
			saveConfig(cfg)
		},
		OnQuit: func() {
			fyneApp.Quit()
		},
	})

	// Without a tray there is no way back to a hidden panel
	if !tray.Setup(fyneApp, menu) || !cfg.FirstLaunchCompleted {
		cfg.FirstLaunchCompleted = true
		saveConfig(cfg)
		panel.Show()
	}

	// Run the Fyne app (this blocks until app.Quit is called)
	fyneApp.Run()
	return nil
}

func saveConfig(cfg *config.Config) {
	if err := cfg.Save(); err != nil {
		log.Printf("Failed to save config: %v", err)
	}
}
