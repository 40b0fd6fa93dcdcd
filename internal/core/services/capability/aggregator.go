package capability

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lcalzada-xor/apcaps/internal/core/domain"
)

// Aggregate decodes every capability element present in frame and returns
// the rows in amendment order: HT, VHT RX/TX, HE <=80/160, EHT <=80/160/320.
// A malformed field drops its own row only; the returned error joins one
// *FieldError per malformed field while rows holds everything that decoded.
func Aggregate(frame domain.Frame) ([]domain.CapabilityRow, error) {
	a := &aggregation{frame: frame}
	a.ht()
	a.vht()
	a.he()
	a.eht()
	return a.rows, errors.Join(a.errs...)
}

type aggregation struct {
	frame domain.Frame
	rows  []domain.CapabilityRow
	errs  []error
}

// fail records err against mode. A non-empty field replaces the generic
// field name the decoders report.
func (a *aggregation) fail(mode, field string, err error) {
	var fe *FieldError
	if errors.As(err, &fe) {
		fe.Mode = mode
		if field != "" {
			fe.Field = field
		}
		a.errs = append(a.errs, fe)
		return
	}
	a.errs = append(a.errs, &FieldError{Mode: mode, Field: field, Err: err})
}

func (a *aggregation) ht() {
	tag, ok := FrameTag(a.frame, domain.TagHTCapabilities)
	if !ok {
		return
	}

	gi, err := shortGI(tag, domain.FieldHTCapTree, []giFlag{
		{domain.FieldHTShort20, "20 MHz"},
		{domain.FieldHTShort40, "40 MHz"},
	})
	if err != nil {
		a.fail(domain.ModeHT, "", err)
	}

	var ranges map[string]any
	if v, found := GetNested(tag, domain.FieldHTMCSSet, domain.FieldHTRxBitmask); found {
		m, isMap := asMap(v)
		if !isMap {
			a.fail(domain.ModeHT, domain.FieldHTRxBitmask, malformed(domain.FieldHTRxBitmask, v, fmt.Errorf("expected subfield map, got %T", v)))
			return
		}
		ranges = m
	}

	res, err := DecodeHTRxMCSBitmask(ranges)
	if err != nil {
		a.fail(domain.ModeHT, "", err)
		return
	}
	a.rows = append(a.rows, domain.CapabilityRow{
		Mode:          domain.ModeHT,
		Bandwidth:     domain.BandwidthHT,
		NSS:           res.TotalNSS,
		MaxMCS:        res.MaxMCS,
		GuardInterval: gi,
	})
}

func (a *aggregation) vht() {
	tag, ok := FrameTag(a.frame, domain.TagVHTCapabilities)
	if !ok {
		return
	}

	gi, err := shortGI(tag, domain.FieldVHTCapTree, []giFlag{
		{domain.FieldVHTShort80, "80 MHz"},
		{domain.FieldVHTShort160, "160 MHz"},
	})
	if err != nil {
		a.fail(domain.ModeVHT, "", err)
	}

	for _, m := range []struct{ bandwidth, field string }{
		{domain.BandwidthRX, domain.FieldVHTRxMCSMap},
		{domain.BandwidthTX, domain.FieldVHTTxMCSMap},
	} {
		hexMap, err := a.field(domain.ModeVHT, m.field, tag, domain.FieldVHTMCSSet, m.field)
		if err != nil {
			continue
		}
		res, err := DecodeVHTMCSMap(hexMap)
		if err != nil {
			a.fail(domain.ModeVHT, m.field, err)
			continue
		}
		a.rows = append(a.rows, domain.CapabilityRow{
			Mode:          domain.ModeVHT,
			Bandwidth:     m.bandwidth,
			NSS:           res.TotalNSS,
			MaxMCS:        res.MaxMCS,
			GuardInterval: gi,
		})
	}
}

func (a *aggregation) he() {
	tag, ok := FrameExtTag(a.frame, domain.ExtTagHECapabilities)
	if !ok {
		return
	}

	for _, m := range []struct{ bandwidth, group, field string }{
		{domain.BandwidthLTE80, domain.FieldHEMaps80, domain.FieldHERxMap80},
		{domain.Bandwidth160, domain.FieldHEMaps160, domain.FieldHERxMap160},
	} {
		hexMap, err := a.field(domain.ModeHE, m.field, tag, domain.FieldHEMCSSet, m.group, m.field)
		if err != nil {
			continue
		}
		res, err := DecodeHEMCSMapVerbose(hexMap)
		if err != nil {
			a.fail(domain.ModeHE, m.field, err)
			continue
		}
		a.rows = append(a.rows, domain.CapabilityRow{
			Mode:      domain.ModeHE,
			Bandwidth: m.bandwidth,
			NSS:       res.TotalNSS,
			MaxMCS:    res.MaxMCS,
		})
	}
}

func (a *aggregation) eht() {
	tag, ok := FrameExtTag(a.frame, domain.ExtTagEHTCapabilities)
	if !ok {
		return
	}

	for _, m := range []struct{ bandwidth, field string }{
		{domain.BandwidthLTE80, domain.FieldEHTMap80},
		{domain.Bandwidth160, domain.FieldEHTMap160},
		{domain.Bandwidth320, domain.FieldEHTMap320},
	} {
		hexMap, err := a.field(domain.ModeEHT, m.field, tag, domain.FieldEHTMCSSet, m.field)
		if err != nil {
			continue
		}
		res, err := DecodeEHTMCSMap(hexMap)
		if err != nil {
			a.fail(domain.ModeEHT, m.field, err)
			continue
		}
		a.rows = append(a.rows, domain.CapabilityRow{
			Mode:      domain.ModeEHT,
			Bandwidth: m.bandwidth,
			NSS:       res.MaxNSS,
			MaxMCS:    res.MaxMCS,
		})
	}
}

// field reads an optional string leaf. Absence yields "" so the decoders
// produce a zero result; a non-string leaf is recorded as malformed.
func (a *aggregation) field(mode, name string, tag domain.Element, path ...string) (string, error) {
	s, present, ok := GetString(tag, path...)
	if present && !ok {
		v, _ := GetNested(tag, path...)
		err := malformed(name, v, fmt.Errorf("expected hex string, got %T", v))
		a.fail(mode, name, err)
		return "", err
	}
	return s, nil
}

type giFlag struct {
	field string
	label string
}

// shortGI summarizes the short guard interval flags of one capability tree.
// It returns nil when none of the flags is advertised.
func shortGI(tag domain.Element, tree string, flags []giFlag) (*string, error) {
	var (
		supported []string
		present   bool
	)
	for _, f := range flags {
		s, found, ok := GetString(tag, tree, f.field)
		if !found {
			continue
		}
		if !ok {
			v, _ := GetNested(tag, tree, f.field)
			return nil, malformed(f.field, v, fmt.Errorf("expected boolean string, got %T", v))
		}
		on, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return nil, malformed(f.field, s, err)
		}
		present = true
		if on {
			supported = append(supported, f.label)
		}
	}

	switch {
	case !present:
		return nil, nil
	case len(supported) == 0:
		return domain.StringPtr(domain.GuardIntervalNo), nil
	default:
		return domain.StringPtr(strings.Join(supported, ", ")), nil
	}
}
