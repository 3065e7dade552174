package radio

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/pothosware/go-soapy-sdr/pkg/device"
	"github.com/pothosware/go-soapy-sdr/pkg/modules"
	"github.com/pothosware/go-soapy-sdr/pkg/sdrlogger"
	"github.com/pothosware/go-soapy-sdr/pkg/version"
)

// SoapyDriver is the SoapySDR module name of the bladeRF support plugin.
const SoapyDriver = "bladerf"

// LogAllSoapySDRDevices lists the bladeRF boards SoapySDR can see, which
// is useful when a board is visible to one stack and not the other.
func LogAllSoapySDRDevices() {
	log.Infof("Using SoapySDR versions: ABI: %s API: %s Lib: %s", version.GetABIVersion(), version.GetAPIVersion(), version.GetLibVersion())
	log.Infof("SoapySDR modules root path: %v", modules.GetRootPath())

	modulesFound := modules.ListModules()
	if len(modulesFound) > 0 {
		for _, module := range modulesFound {
			moduleVersion := modules.GetModuleVersion(module)
			if len(moduleVersion) == 0 {
				moduleVersion = "[None]"
			}
			log.Infof("Found SoapySDR module: %v, version: %v", module, moduleVersion)
		}
	} else {
		log.Info("No SoapySDR modules found")
	}

	// Tune down the logger for soapy so that it doesn't yell about other drivers
	sdrlogger.SetLogLevel(sdrlogger.Error)

	devices := device.Enumerate(map[string]string{"driver": SoapyDriver})
	log.Infof("SoapySDR found %d bladeRF devices", len(devices))
	for idx, dev := range devices {
		log.Infof("Device #%d: serial %s, label %s", idx, dev["serial"], dev["label"])
		sdr, err := device.Make(dev)
		if err != nil {
			log.Errorf("SoapySDR could not open %s: %v", dev["serial"], err)
			continue
		}
		LogAvailSettings(sdr)
		if err := sdr.Unmake(); err != nil {
			log.Errorf("Could not close SDR device: %v", err)
		}
	}
}

// LogAvailSettings reports what the SoapySDR plugin exposes for an open
// board: its hardware identity, the bladeRF driver settings and the tuning
// ranges of every RX and TX channel.
func LogAvailSettings(dev *device.SDRDevice) {
	log.Infof("Hardware %s via %s", dev.GetHardwareKey(), dev.GetDriverKey())
	for k, v := range dev.GetHardwareInfo() {
		log.Infof("\t%s: %s", k, v)
	}

	log.Info("Driver settings:")
	for _, setting := range dev.GetSettingInfo() {
		log.Infof("\t%s = %s (default %s)", settingName(setting), dev.ReadSetting(setting.Key), setting.Value)
	}

	for _, dir := range []device.Direction{device.DirectionRX, device.DirectionTX} {
		for ch := uint(0); ch < dev.GetNumChannels(dir); ch++ {
			logChannel(dev, dir, ch)
		}
	}
}

func logChannel(dev *device.SDRDevice, dir device.Direction, ch uint) {
	name := "RX"
	if dir == device.DirectionTX {
		name = "TX"
	}
	log.Infof("%s%d:", name, ch)
	log.Infof("\tFrequency %.0f Hz, ranges %s", dev.GetFrequency(dir, ch), formatRanges(dev.GetFrequencyRange(dir, ch)))
	log.Infof("\tSample rate %.0f sps, ranges %s", dev.GetSampleRate(dir, ch), formatRanges(dev.GetSampleRateRange(dir, ch)))
	log.Infof("\tBandwidth %.0f Hz, ranges %s", dev.GetBandwidth(dir, ch), formatRanges(dev.GetBandwidthRanges(dir, ch)))
	log.Infof("\tGain %.1f dB, range %s", dev.GetGain(dir, ch), formatRanges([]device.SDRRange{dev.GetGainRange(dir, ch)}))
	for _, stage := range dev.ListGains(dir, ch) {
		log.Infof("\t\t%s: %s", stage, formatRanges([]device.SDRRange{dev.GetGainElementRange(dir, ch, stage)}))
	}
	log.Infof("\tFormats %v, full duplex %v", dev.GetStreamFormats(dir, ch), dev.GetFullDuplex(dir, ch))
}

func settingName(s device.SDRArgInfo) string {
	if s.Name != "" {
		return s.Name
	}
	return s.Key
}

func formatRanges(ranges []device.SDRRange) string {
	if len(ranges) == 0 {
		return "[none]"
	}
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		if r.Minimum == r.Maximum {
			parts = append(parts, strconv.FormatFloat(r.Minimum, 'g', -1, 64))
			continue
		}
		part := strconv.FormatFloat(r.Minimum, 'g', -1, 64) + "-" + strconv.FormatFloat(r.Maximum, 'g', -1, 64)
		if r.Step > 0 {
			part += "/" + strconv.FormatFloat(r.Step, 'g', -1, 64)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}
