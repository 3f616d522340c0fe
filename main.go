package main

import (
	"embed"
	"log/slog"

	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"github.com/ozgurozkan123/ai4.coach/internal/app"
)

//go:embed all:frontend/dist
var assets embed.FS

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	slog.Info("starting app", "version", version, "commit", commit, "date", date)
	service := app.New(version)

	wailsApp := application.New(application.Options{
		Name:        "ai4.coach",
		Description: "Screen-aware voice assistant overlay",
		Services: []application.Service{
			application.NewService(service),
		},
		Assets: application.AssetOptions{
			Handler: application.BundledAssetFileServer(assets),
		},
		Mac: application.MacOptions{
			// Keep running from the tray when the overlay is closed
			ApplicationShouldTerminateAfterLastWindowClosed: false,
		},
	})

	// The overlay is a frameless, transparent, always-on-top window.
	// Opacity and input passthrough are driven by the frontend from
	// presentation events.
	overlay := wailsApp.Window.NewWithOptions(application.WebviewWindowOptions{
		Title:           "ai4.coach",
		Width:           480,
		Height:          640,
		URL:             "/",
		Frameless:       true,
		AlwaysOnTop:     true,
		BackgroundType:  application.BackgroundTypeTransparent,
		DevToolsEnabled: true,
		Mac: application.MacWindow{
			TitleBar: application.MacTitleBarHidden,
		},
	})

	// Intercept window close: hide instead of destroy so tray can reopen
	overlay.RegisterHook(events.Common.WindowClosing, func(e *application.WindowEvent) {
		e.Cancel()
		overlay.Hide()
	})

	service.Init(wailsApp, overlay)

	systemTray := wailsApp.SystemTray.New()
	trayMenu := wailsApp.NewMenu()
	trayMenu.Add("Show overlay").OnClick(func(ctx *application.Context) {
		overlay.Show()
	})
	trayMenu.Add("Toggle click-through").OnClick(func(ctx *application.Context) {
		service.ToggleForceTransparent()
	})
	trayMenu.Add("Copy last answer").OnClick(func(ctx *application.Context) {
		if err := service.CopyLastResponse(); err != nil {
			slog.Warn("copy last answer", "error", err)
		}
	})
	trayMenu.AddSeparator()
	trayMenu.Add("Quit").
		SetAccelerator("CmdOrCtrl+Q").
		OnClick(func(ctx *application.Context) {
			service.Shutdown()
			wailsApp.Quit()
		})
	systemTray.SetMenu(trayMenu)

	if err := wailsApp.Run(); err != nil {
		slog.Error("run app", "error", err)
	}
}
