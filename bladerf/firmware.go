package bladerf

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/gobladerf/native"
)

func checkPath(path string) error {
	if path == "" {
		return invalidError("empty path")
	}
	if strings.IndexByte(path, 0) >= 0 {
		return invalidError("path %q contains a NUL byte", path)
	}
	return nil
}

func (c *core) pathOp(path string, op func(l native.Library, dev native.Device, path string) int) error {
	if err := checkPath(path); err != nil {
		return err
	}
	return c.do(func(l native.Library, dev native.Device) int { return op(l, dev, path) })
}

// FlashFirmware writes the firmware image at path to the device flash.
func (c *core) FlashFirmware(path string) error {
	log.Infof("Flashing firmware from %s", path)
	return c.pathOp(path, func(l native.Library, dev native.Device, p string) int { return l.FlashFirmware(dev, p) })
}

// LoadFPGA loads the bitstream at path into the FPGA.
func (c *core) LoadFPGA(path string) error {
	log.Infof("Loading FPGA bitstream %s", path)
	return c.pathOp(path, func(l native.Library, dev native.Device, p string) int { return l.LoadFPGA(dev, p) })
}

// LoadFPGAFromEnv loads the bitstream named by BLADERF_FPGA_BITSTREAM_PATH.
func (c *core) LoadFPGAFromEnv() error {
	path, ok := os.LookupEnv(EnvFPGABitstream)
	if !ok {
		return invalidError("environment variable %s is not set", EnvFPGABitstream)
	}
	return c.LoadFPGA(path)
}

// FlashFPGA stores the bitstream at path so the device loads it at power on.
func (c *core) FlashFPGA(path string) error {
	log.Infof("Flashing FPGA bitstream %s", path)
	return c.pathOp(path, func(l native.Library, dev native.Device, p string) int { return l.FlashFPGA(dev, p) })
}

// EraseStoredFPGA removes the autoloaded bitstream from flash.
func (c *core) EraseStoredFPGA() error {
	return c.do(func(l native.Library, dev native.Device) int { return l.EraseStoredFPGA(dev) })
}

// DownloadFirmwareLog writes the firmware log to path.
func (c *core) DownloadFirmwareLog(path string) error {
	return c.pathOp(path, func(l native.Library, dev native.Device, p string) int { return l.GetFWLog(dev, p) })
}
