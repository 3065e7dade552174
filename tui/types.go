package tui

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/jrwynneiii/gobladerf/bladerf"
	"github.com/jrwynneiii/gobladerf/radio"
	"github.com/jrwynneiii/gobladerf/spectrum"
	"github.com/rivo/tview"
)

type DeviceTableData struct {
	tview.TableContentReadOnly
}

type StreamTableData struct {
	tview.TableContentReadOnly
}

// DeviceInfo is what the device table shows. It is refreshed from the
// handle on every UI tick.
type DeviceInfo struct {
	Board          string
	Serial         string
	Firmware       bladerf.Version
	FPGA           bladerf.Version
	Frequency      uint64
	Gain           int32
	Temperature    float32
	HasTemperature bool
}

var (
	statsMu      sync.RWMutex
	deviceInfo   DeviceInfo
	streamStats  radio.Stats
	spectrumSnap spectrum.Snapshot
)

// GatherDeviceInfo reads the device table fields from dev. Fields that
// cannot be read are left empty.
func GatherDeviceInfo(dev radio.Device, ch bladerf.Channel) DeviceInfo {
	var info DeviceInfo
	var err error
	if info.Board, err = dev.BoardName(); err != nil {
		log.Debugf("Could not read board name: %v", err)
	}
	if info.Serial, err = dev.Serial(); err != nil {
		log.Debugf("Could not read serial: %v", err)
	}
	if info.Firmware, err = dev.FirmwareVersion(); err != nil {
		log.Debugf("Could not read firmware version: %v", err)
	}
	if info.FPGA, err = dev.FPGAVersion(); err != nil {
		log.Debugf("Could not read FPGA version: %v", err)
	}
	if info.Frequency, err = dev.Frequency(ch); err != nil {
		log.Debugf("Could not read frequency: %v", err)
	}
	if info.Gain, err = dev.Gain(ch); err != nil {
		log.Debugf("Could not read gain: %v", err)
	}
	if b2, ok := dev.(*bladerf.BladeRF2); ok {
		if t, err := b2.RFICTemperature(); err == nil {
			info.Temperature = t
			info.HasTemperature = true
		}
	}
	return info
}

// PowerPercent maps a level in dBFS onto a gauge, -60 dBFS and below
// being empty and full scale being full.
func PowerPercent(dbfs float64) float64 {
	return clampPct((dbfs + 60) / 60 * 100)
}

// SNRPercent maps an SNR in dB onto a gauge that is full at 40 dB.
func SNRPercent(snr float64) float64 {
	return clampPct(snr / 40 * 100)
}

func clampPct(v float64) float64 {
	switch {
	case v != v, v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

func formatHz(hz float64) string {
	switch {
	case hz >= 1e9 || hz <= -1e9:
		return fmt.Sprintf("%.6f GHz", hz/1e9)
	case hz >= 1e6 || hz <= -1e6:
		return fmt.Sprintf("%.3f MHz", hz/1e6)
	case hz >= 1e3 || hz <= -1e3:
		return fmt.Sprintf("%.3f kHz", hz/1e3)
	}
	return fmt.Sprintf("%.0f Hz", hz)
}

func (d *DeviceTableData) GetRowCount() int {
	return 7
}

func (d *DeviceTableData) GetColumnCount() int {
	return 2
}

func (d *DeviceTableData) GetCell(row, column int) *tview.TableCell {
	statsMu.RLock()
	info := deviceInfo
	statsMu.RUnlock()

	labels := []string{"Board:", "Serial:", "Firmware:", "FPGA:", "Frequency:", "Gain:", "RFIC temp:"}
	if row < 0 || row >= len(labels) {
		return tview.NewTableCell("ERROR")
	}
	if column == 0 {
		return tview.NewTableCell(labels[row]).SetTextColor(tcell.ColorLightSkyBlue)
	}
	switch row {
	case 0:
		return tview.NewTableCell(info.Board)
	case 1:
		return tview.NewTableCell(info.Serial)
	case 2:
		return tview.NewTableCell(info.Firmware.String())
	case 3:
		return tview.NewTableCell(info.FPGA.String())
	case 4:
		return tview.NewTableCell(formatHz(float64(info.Frequency)))
	case 5:
		return tview.NewTableCell(fmt.Sprintf("%d dB", info.Gain))
	case 6:
		if !info.HasTemperature {
			return tview.NewTableCell("n/a").SetTextColor(tcell.ColorGray)
		}
		return tview.NewTableCell(fmt.Sprintf("%.1f C", info.Temperature))
	}
	return tview.NewTableCell("ERROR")
}

func (s *StreamTableData) GetRowCount() int {
	return 6
}

func (s *StreamTableData) GetColumnCount() int {
	return 2
}

func (s *StreamTableData) GetCell(row, column int) *tview.TableCell {
	statsMu.RLock()
	st := streamStats
	snap := spectrumSnap
	statsMu.RUnlock()

	labels := []string{"Chunks Rx'd:", "Samples Rx'd:", "Read errors:", "Timestamp:", "FFT frames:", "Peak offset:"}
	if row < 0 || row >= len(labels) {
		return tview.NewTableCell("ERROR")
	}
	if column == 0 {
		return tview.NewTableCell(labels[row]).SetTextColor(tcell.ColorLightSkyBlue)
	}
	switch row {
	case 0:
		return tview.NewTableCell(fmt.Sprintf("%d", st.Chunks))
	case 1:
		return tview.NewTableCell(fmt.Sprintf("%d", st.Samples))
	case 2:
		color := tcell.ColorGreen
		if st.ReadErrors > 0 {
			color = tcell.ColorRed
		}
		return tview.NewTableCell(fmt.Sprintf("%d", st.ReadErrors)).SetTextColor(color)
	case 3:
		return tview.NewTableCell(fmt.Sprintf("%d", st.Timestamp))
	case 4:
		return tview.NewTableCell(fmt.Sprintf("%d", snap.Frames))
	case 5:
		return tview.NewTableCell(formatHz(snap.PeakFrequency()))
	}
	return tview.NewTableCell("ERROR")
}
