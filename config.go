package swipe

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SearchConf carries the tunables a `swipe search` run reads, the
// colon-separated CSV layout the teacher's DBConf uses for its own
// persisted settings (dbconf.go's LoadDBConf/Write).
type SearchConf struct {
	GapOpen             int
	GapExtend           int
	FrameShift          int
	MinUngappedRawScore int
	MinHitRawScore      int
	HitBand             int
	SeedAnchor          int
	Threads             int
}

// DefaultSearchConf mirrors DIAMOND's shipped defaults for these knobs.
var DefaultSearchConf = &SearchConf{
	GapOpen:             DefaultGapOpen,
	GapExtend:           DefaultGapExtend,
	FrameShift:          DefaultFrameShift,
	MinUngappedRawScore: 38,
	MinHitRawScore:      41,
	HitBand:             5,
	SeedAnchor:          4,
	Threads:             1,
}

// LoadSearchConf reads a colon-separated config file, starting from
// DefaultSearchConf and overwriting only the fields the file names,
// exactly as LoadDBConf does for the teacher's DBConf.
func LoadSearchConf(r io.Reader) (conf *SearchConf, err error) {
	defer func() {
		if perr := recover(); perr != nil {
			if asErr, ok := perr.(error); ok {
				err = asErr
			} else {
				panic(perr)
			}
		}
	}()
	c := *DefaultSearchConf
	conf = &c

	csvReader := csv.NewReader(r)
	csvReader.Comma = ':'
	csvReader.Comment = '#'
	csvReader.FieldsPerRecord = 2
	csvReader.TrimLeadingSpace = true

	lines, err := csvReader.ReadAll()
	if err != nil {
		return nil, err
	}

	atoi := func(s string) int {
		i, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			panic(err)
		}
		return i
	}

	for _, line := range lines {
		switch line[0] {
		case "GapOpen":
			conf.GapOpen = atoi(line[1])
		case "GapExtend":
			conf.GapExtend = atoi(line[1])
		case "FrameShift":
			conf.FrameShift = atoi(line[1])
		case "MinUngappedRawScore":
			conf.MinUngappedRawScore = atoi(line[1])
		case "MinHitRawScore":
			conf.MinHitRawScore = atoi(line[1])
		case "HitBand":
			conf.HitBand = atoi(line[1])
		case "SeedAnchor":
			conf.SeedAnchor = atoi(line[1])
		case "Threads":
			conf.Threads = atoi(line[1])
		default:
			return nil, fmt.Errorf("swipe: invalid SearchConf field %q", line[0])
		}
	}
	return conf, nil
}

// Write serializes conf back to the same colon-separated layout
// LoadSearchConf reads, mirroring DBConf.Write.
func (conf SearchConf) Write(w io.Writer) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = ':'

	s := func(i int) string { return strconv.Itoa(i) }
	records := [][]string{
		{"GapOpen", s(conf.GapOpen)},
		{"GapExtend", s(conf.GapExtend)},
		{"FrameShift", s(conf.FrameShift)},
		{"MinUngappedRawScore", s(conf.MinUngappedRawScore)},
		{"MinHitRawScore", s(conf.MinHitRawScore)},
		{"HitBand", s(conf.HitBand)},
		{"SeedAnchor", s(conf.SeedAnchor)},
		{"Threads", s(conf.Threads)},
	}
	if err := csvWriter.WriteAll(records); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// ScoringContextFrom builds a ScoringContext whose gap/frame-shift
// penalties come from conf, and a PrefilterConfig from the remaining
// fields, so callers (the CLI, tests) only need one struct to carry
// user-tunable knobs end to end.
func (conf *SearchConf) ScoringContextFrom() (*ScoringContext, PrefilterConfig) {
	sc := NewScoringContext()
	sc.GapOpen = conf.GapOpen
	sc.GapExtend = conf.GapExtend
	sc.FrameShift = conf.FrameShift
	cfg := PrefilterConfig{
		MinUngappedRawScore: conf.MinUngappedRawScore,
		MinHitRawScore:      conf.MinHitRawScore,
		HitBand:             conf.HitBand,
		SeedAnchor:          conf.SeedAnchor,
	}
	return sc, cfg
}
