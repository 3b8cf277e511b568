package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	appanalysis "github.com/bryanwahyu/agro-inteligente/internal/application/analysis"
	"github.com/bryanwahyu/agro-inteligente/internal/application/session"
	domain "github.com/bryanwahyu/agro-inteligente/internal/domain/analysis"
	"github.com/bryanwahyu/agro-inteligente/internal/infra/camera"
	"github.com/bryanwahyu/agro-inteligente/internal/presentation"
)

// drainTimeout bounds how long the CLI waits for the background store write.
const drainTimeout = 10 * time.Second

// --- capture ---

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a photo and diagnose the plant",
	Long: `Capture one still from the configured camera, analyze it and show the diagnosis.

Examples:
  agro capture
  agro capture --device handheld
  agro capture --direct`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		class, _ := cmd.Flags().GetString("device")
		return runCycle(cmd, "", camera.DeviceClass(class))
	},
}

func init() {
	captureCmd.Flags().String("device", "", "device class hint: handheld or desktop (default camera.device_class)")
}

// --- analyze-file ---

var analyzeFileCmd = &cobra.Command{
	Use:   "analyze-file <path>",
	Short: "Diagnose the plant in an image file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCycle(cmd, args[0], camera.Desktop)
	},
}

// --- history ---

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recent analyses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd.Context())
		if err != nil {
			return err
		}
		defer d.close()

		records, err := d.svc.Recent(cmd.Context(), d.cfg.Client.HistoryLimit)
		if err != nil {
			printError("%s", domain.Message(err))
			return err
		}
		return presentation.RenderHistory(cmd.OutOrStdout(), records, time.Local, style())
	},
}

// runCycle performs capture → analyze → render, then drains the detached write.
func runCycle(cmd *cobra.Command, file string, class camera.DeviceClass) error {
	ctx := cmd.Context()
	d, err := newDeps(ctx)
	if err != nil {
		return err
	}
	defer d.close()

	dev, err := device(d.cfg, file)
	if err != nil {
		return err
	}
	if class == "" {
		class = camera.DeviceClass(d.cfg.Camera.DeviceClass)
	}

	surface := camera.NewSurface(dev, camera.DefaultConstraints(class))
	surface.OnPermission = func(p camera.Permission) {
		if p == camera.PermissionDenied {
			printWarning("Permiso de cámara denegado")
		}
	}
	surface.Start(ctx)
	defer surface.Close()

	writes := appanalysis.NewDetached(d.svc)
	writes.OnFailure = func(err error) {
		printWarning("No se pudo guardar el análisis: %s", domain.Message(err))
	}

	sess := session.New(surface, d.svc, writes)
	sess.OnTransition = func(from, to session.State) {
		switch to {
		case session.Capturing:
			printStep("Capturando imagen...")
		case session.Analyzing:
			printStep("Analizando...")
		}
	}

	res, err := sess.Run(ctx)
	if err != nil {
		printError("%s", domain.Message(err))
		return err
	}
	printSuccess("Análisis completado")
	if err := presentation.RenderResult(cmd.OutOrStdout(), res, style()); err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := sess.Wait(waitCtx); err != nil {
		printWarning("El guardado sigue pendiente; se abandona al salir")
	}
	return nil
}
