package sim

import "github.com/jrwynneiii/gobladerf/native"

type stage struct {
	name string
	rng  native.Range
}

// profile holds the fixed characteristics of a board family.
type profile struct {
	name        string
	channels    []int32
	fpgaSize    int32
	freq        map[int32]native.Range
	rate        native.Range
	bandwidth   native.Range
	bwTable     []uint32
	gain        map[int32]native.Range
	stages      map[int32][]stage
	gainModes   map[int32][]native.GainMode
	loopbacks   []native.LoopbackMode
	defaultFreq uint64
	defaultRate uint32
	defaultBW   uint32
}

func rng(lo, hi, step int64) native.Range {
	return native.Range{Min: lo, Max: hi, Step: step, Scale: 1}
}

var agcModes = []native.GainMode{
	{Name: "automatic", Mode: 0},
	{Name: "manual", Mode: 1},
	{Name: "fast", Mode: 2},
	{Name: "slow", Mode: 3},
	{Name: "hybrid", Mode: 4},
}

var bladeRF1 = profile{
	name:     "bladerf1",
	channels: []int32{native.ChannelRx0, native.ChannelTx0},
	fpgaSize: 115,
	freq: map[int32]native.Range{
		native.ChannelRx0: rng(280_000_000, 3_800_000_000, 1),
		native.ChannelTx0: rng(280_000_000, 3_800_000_000, 1),
	},
	rate:      rng(80_000, 40_000_000, 1),
	bandwidth: rng(1_500_000, 28_000_000, 1),
	bwTable: []uint32{
		1_500_000, 1_750_000, 2_500_000, 2_750_000, 3_000_000, 3_840_000, 5_000_000, 5_500_000,
		6_000_000, 7_000_000, 8_750_000, 10_000_000, 12_000_000, 14_000_000, 20_000_000, 28_000_000,
	},
	gain: map[int32]native.Range{
		native.ChannelRx0: rng(5, 66, 1),
		native.ChannelTx0: rng(-35, 21, 1),
	},
	stages: map[int32][]stage{
		native.ChannelRx0: {{"lna", rng(0, 6, 3)}, {"rxvga1", rng(5, 30, 1)}, {"rxvga2", rng(0, 30, 3)}},
		native.ChannelTx0: {{"txvga1", rng(-35, -4, 1)}, {"txvga2", rng(0, 25, 1)}},
	},
	gainModes: map[int32][]native.GainMode{
		native.ChannelRx0: agcModes[:2],
	},
	loopbacks: []native.LoopbackMode{
		{Name: "none", Mode: 0}, {Name: "firmware", Mode: 1},
		{Name: "bb_txlpf_rxvga2", Mode: 2}, {Name: "bb_txvga1_rxvga2", Mode: 3},
		{Name: "bb_txlpf_rxlpf", Mode: 4}, {Name: "bb_txvga1_rxlpf", Mode: 5},
		{Name: "rf_lna1", Mode: 6}, {Name: "rf_lna2", Mode: 7}, {Name: "rf_lna3", Mode: 8},
	},
	defaultFreq: 1_000_000_000,
	defaultRate: 1_000_000,
	defaultBW:   1_500_000,
}

var bladeRF2 = profile{
	name:     "bladerf2",
	channels: []int32{native.ChannelRx0, native.ChannelTx0, native.ChannelRx1, native.ChannelTx1},
	fpgaSize: 49,
	freq: map[int32]native.Range{
		native.ChannelRx0: rng(70_000_000, 6_000_000_000, 1),
		native.ChannelRx1: rng(70_000_000, 6_000_000_000, 1),
		native.ChannelTx0: rng(47_000_000, 6_000_000_000, 1),
		native.ChannelTx1: rng(47_000_000, 6_000_000_000, 1),
	},
	rate:      rng(520_834, 61_440_000, 1),
	bandwidth: rng(200_000, 56_000_000, 1),
	gain: map[int32]native.Range{
		native.ChannelRx0: rng(-15, 60, 1),
		native.ChannelRx1: rng(-15, 60, 1),
		native.ChannelTx0: rng(-24, 66, 1),
		native.ChannelTx1: rng(-24, 66, 1),
	},
	stages: map[int32][]stage{
		native.ChannelRx0: {{"full", rng(-4, 71, 1)}},
		native.ChannelRx1: {{"full", rng(-4, 71, 1)}},
		native.ChannelTx0: {{"dsa", rng(-89, 0, 1)}},
		native.ChannelTx1: {{"dsa", rng(-89, 0, 1)}},
	},
	gainModes: map[int32][]native.GainMode{
		native.ChannelRx0: agcModes,
		native.ChannelRx1: agcModes,
	},
	loopbacks: []native.LoopbackMode{
		{Name: "none", Mode: 0}, {Name: "firmware", Mode: 1}, {Name: "rfic_bist", Mode: 9},
	},
	defaultFreq: 2_400_000_000,
	defaultRate: 30_720_000,
	defaultBW:   18_000_000,
}

func profileFor(board string) *profile {
	if board == "bladerf1" {
		return &bladeRF1
	}
	return &bladeRF2
}

func (p *profile) hasChannel(ch int32) bool {
	for _, c := range p.channels {
		if c == ch {
			return true
		}
	}
	return false
}

func inRange(r native.Range, v int64) bool {
	return v >= r.Min && v <= r.Max
}

// snapBandwidth picks the narrowest table entry at or above hz.
func (p *profile) snapBandwidth(hz uint32) uint32 {
	if len(p.bwTable) == 0 {
		return uint32(max(min(int64(hz), p.bandwidth.Max), p.bandwidth.Min))
	}
	for _, bw := range p.bwTable {
		if bw >= hz {
			return bw
		}
	}
	return p.bwTable[len(p.bwTable)-1]
}
