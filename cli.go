package main

var cli struct {
	Verbose bool   `help:"Prints debug output by default"`
	Backend string `help:"Native library to drive: libbladerf or sim. Defaults to radio.backend"`
	Config  string `type:"path" help:"Config file to use instead of searching the default paths"`
	Device  string `short:"d" help:"Device identifier, overrides radio.identifier (e.g. \"*:serial=f12ce1\")"`
	LibLog  string `default:"warning" help:"libbladeRF log level (verbose, debug, info, warning, error, critical, silent)"`

	Probe struct {
		Soapy bool `help:"Also list the boards SoapySDR can see"`
	} `cmd:"" help:"List the attached bladeRF boards"`
	Info struct {
	} `cmd:"" help:"Print a report on the device and each of its channels"`
	Rx struct {
		Samples uint64 `short:"n" default:"1000000" help:"Number of samples to receive"`
		Output  string `short:"o" type:"path" help:"Write the samples to this file as interleaved float32 IQ"`
	} `cmd:"" help:"Receive samples and report their power and spectrum peak"`
	Tx struct {
		Samples   uint64  `short:"n" default:"1000000" help:"Number of samples to transmit"`
		Tone      float64 `default:"100000" help:"Tone offset from the carrier in Hz"`
		Amplitude float64 `default:"0.5" help:"Tone amplitude relative to full scale"`
	} `cmd:"" help:"Transmit a generated tone"`
	Monitor struct {
	} `cmd:"" help:"Starts the TUI and connects to the SDR"`
	Firmware struct {
		Flash struct {
			Image string `arg:"" optional:"" type:"path" help:"Firmware image, defaults to $BLADERF_FIRMWARE_PATH"`
		} `cmd:"" help:"Write a firmware image to the device flash"`
		Log struct {
			Output string `arg:"" optional:"" default:"bladerf_fw.log" type:"path" help:"File to write"`
		} `cmd:"" help:"Download the firmware log"`
	} `cmd:"" help:"Firmware maintenance"`
	Fpga struct {
		Load struct {
			Image string `arg:"" optional:"" type:"path" help:"Bitstream, defaults to $BLADERF_FPGA_BITSTREAM_PATH"`
		} `cmd:"" help:"Load a bitstream into the FPGA"`
		Flash struct {
			Image string `arg:"" type:"path" help:"Bitstream to store for autoload"`
		} `cmd:"" help:"Store a bitstream in flash for autoload"`
		Erase struct {
		} `cmd:"" help:"Erase the stored bitstream"`
	} `cmd:"" help:"FPGA maintenance"`
	Xb200 struct {
		Filter struct {
			Filter    string `arg:"" help:"50m, 144m, 222m, custom, auto_1db or auto_3db"`
			Direction string `enum:"rx,tx,both" default:"both" help:"Direction to set"`
		} `cmd:"" help:"Select the XB-200 filter bank"`
		Path struct {
			Path      string `arg:"" help:"mix or bypass"`
			Direction string `enum:"rx,tx,both" default:"both" help:"Direction to set"`
		} `cmd:"" help:"Select the XB-200 signal path"`
		Gpio struct {
			Pin   string `arg:"" help:"Header pin, e.g. J7_1 or J16_6"`
			Level string `arg:"" optional:"" help:"high or low to drive the pin; read it when omitted"`
		} `cmd:"" help:"Read or drive an XB-200 GPIO pin"`
	} `cmd:"" name:"xb200" help:"XB-200 transverter control"`
}
