package tui

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/jrwynneiii/gobladerf/bladerf"
	"github.com/jrwynneiii/gobladerf/config"
	"github.com/jrwynneiii/gobladerf/radio"
	"github.com/jrwynneiii/gobladerf/spectrum"
	"github.com/navidys/tvxwidgets"
	"github.com/rivo/tview"
)

// Source is the receive pipeline the monitor reports on. *radio.Radio
// satisfies it for every sample type.
type Source interface {
	Stats() radio.Stats
	Device() radio.Device
}

var LogOut *tview.TextView

// update copies the latest pipeline state into the table data.
func update(src Source, analyzer *spectrum.Analyzer, ch bladerf.Channel) spectrum.Snapshot {
	info := GatherDeviceInfo(src.Device(), ch)
	snap := analyzer.Snapshot()
	statsMu.Lock()
	deviceInfo = info
	streamStats = src.Stats()
	spectrumSnap = snap
	statsMu.Unlock()
	return snap
}

// StartUI runs the monitor until the user quits or ctx is cancelled.
func StartUI(ctx context.Context, src Source, analyzer *spectrum.Analyzer, ch bladerf.Channel, tuiConf config.TuiConf) {
	app := tview.NewApplication()

	LogOut = tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	deviceTable := tview.NewTable().SetContent(&DeviceTableData{})
	streamTable := tview.NewTable().SetContent(&StreamTableData{})

	spectrumPlot := tvxwidgets.NewPlot()
	spectrumPlot.SetLineColor([]tcell.Color{tcell.ColorLightSkyBlue})
	spectrumPlot.SetMarker(tvxwidgets.PlotMarkerBraille)

	powerGauge := tvxwidgets.NewUtilModeGauge()
	powerGauge.SetLabel("Input Power:   ")
	powerGauge.SetLabelColor(tcell.ColorLightSkyBlue)
	powerGauge.SetWarnPercentage(tuiConf.PowerWarnPct)
	powerGauge.SetCritPercentage(tuiConf.PowerCritPct)
	powerGauge.SetEmptyColor(tcell.ColorBlack)
	powerGauge.SetBorder(false)

	snrGauge := tvxwidgets.NewUtilModeGauge()
	snrGauge.SetLabel("SNR:           ")
	snrGauge.SetLabelColor(tcell.ColorLightSkyBlue)
	snrGauge.SetWarnPercentage(99)
	snrGauge.SetCritPercentage(100)
	snrGauge.SetEmptyColor(tcell.ColorBlack)
	snrGauge.SetBorder(false)

	peakGauge := tvxwidgets.NewUtilModeGauge()
	peakGauge.SetLabel("Peak SNR:      ")
	peakGauge.SetLabelColor(tcell.ColorLightSkyBlue)
	peakGauge.SetWarnPercentage(99)
	peakGauge.SetCritPercentage(100)
	peakGauge.SetEmptyColor(tcell.ColorBlack)
	peakGauge.SetBorder(false)

	gaugeBox := tview.NewFlex()
	gaugeBox.SetDirection(tview.FlexRow)
	gaugeBox.AddItem(powerGauge, 0, 1, false)
	gaugeBox.AddItem(snrGauge, 0, 1, false)
	gaugeBox.AddItem(peakGauge, 0, 1, false)
	gaugeBox.SetTitle("Signal Stats")
	gaugeBox.SetBorder(true)

	LogOut.SetChangedFunc(func() {
		LogOut.ScrollToEnd()
		app.Draw()
	})

	LogOut.SetBorder(true).SetTitle("Log Output")
	if tuiConf.EnableLogOutput {
		log.SetOutput(LogOut)
		defer log.SetOutput(os.Stderr)
	}
	deviceTable.SetSelectable(false, false).SetBorder(true).SetTitle("Device")
	streamTable.SetSelectable(false, false).SetBorder(true).SetTitle("Stream")

	spectrumPlot.SetBorder(true)
	spectrumPlot.SetTitle("Spectrum (dBFS)")

	page := tview.NewFlex().SetDirection(tview.FlexColumn)

	leftCol := tview.NewFlex().SetDirection(tview.FlexRow)
	leftCol.AddItem(deviceTable, 0, 3, false)
	leftCol.AddItem(streamTable, 0, 2, false)

	rightCol := tview.NewFlex().SetDirection(tview.FlexRow)
	rightCol.AddItem(gaugeBox, 0, 2, false)
	rightCol.AddItem(spectrumPlot, 0, 4, false)
	if tuiConf.EnableLogOutput {
		rightCol.AddItem(LogOut, 0, 2, false)
	}

	page.AddItem(leftCol, 0, 2, false)
	page.AddItem(rightCol, 0, 5, false)

	refresh := time.Duration(tuiConf.RefreshMs) * time.Millisecond
	if refresh <= 0 {
		refresh = 250 * time.Millisecond
	}

	//Update Stats
	go func() {
		ticker := time.NewTicker(refresh)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				app.Stop()
				return
			case <-ticker.C:
			}
			snap := update(src, analyzer, ch)

			powerGauge.SetValue(PowerPercent(snap.PowerDBFS))
			snrGauge.SetValue(SNRPercent(snap.SNR))
			peakGauge.SetValue(SNRPercent(snap.PeakSNR))

			if len(snap.Bins) > 0 {
				spectrumPlot.SetData([][]float64{snap.Bins})
			}
			app.Draw()
		}
	}()

	if err := app.SetRoot(page, true).EnableMouse(true).Run(); err != nil {
		log.Fatalf("Could not start UI: %v", err)
	}
}
