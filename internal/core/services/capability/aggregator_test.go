package capability

import (
	"errors"
	"testing"

	"github.com/lcalzada-xor/apcaps/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wifi7Frame mirrors `tshark -T json --no-duplicate-keys` output for a
// tri-band Wi-Fi 7 beacon.
func wifi7Frame() domain.Frame {
	return domain.Frame{
		"wlan": map[string]any{
			"wlan.fc.type_subtype": "0x0008",
			"wlan.bssid":           "AA:BB:CC:00:11:22",
		},
		"wlan.mgt": map[string]any{
			"wlan.tagged.all": map[string]any{
				"wlan.tag": []any{
					map[string]any{"wlan.tag.number": "0", "wlan.ssid": "lab-ap"},
					map[string]any{"wlan.tag.number": "3", "wlan.ds.current_channel": "36"},
					map[string]any{
						"wlan.tag.number": "45",
						"wlan.ht.capabilities_tree": map[string]any{
							"wlan.ht.capabilities.short20": "1",
							"wlan.ht.capabilities.short40": "1",
						},
						"wlan.ht.mcsset": map[string]any{
							"wlan.ht.mcsset.rxbitmask": map[string]any{
								"wlan.ht.mcsset.rxbitmask.0to7":   "0x000000ff",
								"wlan.ht.mcsset.rxbitmask.8to15":  "0x000000ff",
								"wlan.ht.mcsset.rxbitmask.16to23": "0x00000000",
								"wlan.ht.mcsset.rxbitmask.24to31": "0x00000000",
							},
						},
					},
					map[string]any{
						"wlan.tag.number": "191",
						"wlan.vht.capabilities_tree": map[string]any{
							"wlan.vht.capabilities.short80":  "1",
							"wlan.vht.capabilities.short160": "0",
						},
						"wlan.vht.mcsset": map[string]any{
							"wlan.vht.mcsset.rxmcsmap": "0xfffa",
							"wlan.vht.mcsset.txmcsmap": "0xfff5",
						},
					},
				},
				"wlan.ext_tag": []any{
					map[string]any{
						"wlan.ext_tag.number": "35",
						"Supported HE-MCS and NSS Set": map[string]any{
							"Rx and Tx MCS Maps <= 80 MHz": map[string]any{
								"wlan.ext_tag.he_mcs_map.rx_he_mcs_map_lte_80": "0xfffa",
								"wlan.ext_tag.he_mcs_map.tx_he_mcs_map_lte_80": "0xfffa",
							},
							"Rx and Tx MCS Maps 160 MHz": map[string]any{
								"wlan.ext_tag.he_mcs_map.rx_he_mcs_map_160": "0xfff5",
							},
						},
					},
					map[string]any{
						"wlan.ext_tag.number": "108",
						"Supported EHT-MCS and NSS Set": map[string]any{
							"wlan.eht.supported_eht_mcs_bss_set.eht_mcs_map_bw_le_80_mhz":  "0x222222",
							"wlan.eht.supported_eht_mcs_bss_set.eht_mcs_map_bw_eq_160_mhz": "0x002222",
							"wlan.eht.supported_eht_mcs_bss_set.eht_mcs_map_bw_eq_320_mhz": "0x000000",
						},
					},
				},
			},
		},
	}
}

func TestAggregate_AllAmendments(t *testing.T) {
	rows, err := Aggregate(wifi7Frame())
	require.NoError(t, err)

	want := []domain.CapabilityRow{
		{Mode: "HT", Bandwidth: "20/40 MHz", NSS: 2, MaxMCS: domain.IntPtr(15), GuardInterval: domain.StringPtr("20 MHz, 40 MHz")},
		{Mode: "VHT", Bandwidth: "RX", NSS: 2, MaxMCS: domain.IntPtr(9), GuardInterval: domain.StringPtr("80 MHz")},
		{Mode: "VHT", Bandwidth: "TX", NSS: 2, MaxMCS: domain.IntPtr(8), GuardInterval: domain.StringPtr("80 MHz")},
		{Mode: "HE", Bandwidth: "<=80 MHz", NSS: 2, MaxMCS: domain.IntPtr(11)},
		{Mode: "HE", Bandwidth: "160 MHz", NSS: 2, MaxMCS: domain.IntPtr(9)},
		{Mode: "EHT", Bandwidth: "<=80 MHz", NSS: 2, MaxMCS: domain.IntPtr(13)},
		{Mode: "EHT", Bandwidth: "160 MHz", NSS: 2, MaxMCS: domain.IntPtr(11)},
		{Mode: "EHT", Bandwidth: "320 MHz", NSS: 0, MaxMCS: nil},
	}
	assert.Equal(t, want, rows)
}

func TestAggregate_RowOrderIndependentOfTagOrder(t *testing.T) {
	frame := wifi7Frame()
	tagged := frame["wlan.mgt"].(map[string]any)["wlan.tagged.all"].(map[string]any)
	tags := tagged["wlan.tag"].([]any)
	reversed := make([]any, len(tags))
	for i := range tags {
		reversed[len(tags)-1-i] = tags[i]
	}
	tagged["wlan.tag"] = reversed
	ext := tagged["wlan.ext_tag"].([]any)
	tagged["wlan.ext_tag"] = []any{ext[1], ext[0]}

	rows, err := Aggregate(frame)
	require.NoError(t, err)

	var order []string
	for _, r := range rows {
		order = append(order, r.Mode+" "+r.Bandwidth)
	}
	assert.Equal(t, []string{
		"HT 20/40 MHz", "VHT RX", "VHT TX",
		"HE <=80 MHz", "HE 160 MHz",
		"EHT <=80 MHz", "EHT 160 MHz", "EHT 320 MHz",
	}, order)
}

func TestAggregate_NoCapabilityElements(t *testing.T) {
	frame := domain.Frame{
		"wlan.mgt": map[string]any{
			"wlan.tagged.all": map[string]any{
				"wlan.tag": map[string]any{"wlan.tag.number": "0", "wlan.ssid": "legacy"},
			},
		},
	}
	rows, err := Aggregate(frame)
	assert.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = Aggregate(nil)
	assert.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAggregate_MissingFieldsYieldZeroRows(t *testing.T) {
	frame := domain.Frame{
		"wlan.mgt": map[string]any{
			"wlan.tagged.all": map[string]any{
				"wlan.ext_tag": map[string]any{"wlan.ext_tag.number": "35"},
			},
		},
	}
	rows, err := Aggregate(frame)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, domain.ModeHE, r.Mode)
		assert.Zero(t, r.NSS)
		assert.Nil(t, r.MaxMCS)
		assert.Nil(t, r.GuardInterval)
	}
}

func TestAggregate_MalformedFieldKeepsOtherRows(t *testing.T) {
	frame := wifi7Frame()
	tagged := frame["wlan.mgt"].(map[string]any)["wlan.tagged.all"].(map[string]any)
	vht := tagged["wlan.tag"].([]any)[3].(map[string]any)
	vht["wlan.vht.mcsset"].(map[string]any)["wlan.vht.mcsset.rxmcsmap"] = "0xnothex"
	eht := tagged["wlan.ext_tag"].([]any)[1].(map[string]any)
	eht["Supported EHT-MCS and NSS Set"].(map[string]any)["wlan.eht.supported_eht_mcs_bss_set.eht_mcs_map_bw_eq_320_mhz"] = map[string]any{}

	rows, err := Aggregate(frame)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedField))
	assert.Contains(t, err.Error(), "wlan.vht.mcsset.rxmcsmap")
	assert.Contains(t, err.Error(), "eht_mcs_map_bw_eq_320_mhz")

	require.Len(t, rows, 6)
	assert.Equal(t, "HT", rows[0].Mode)
	assert.Equal(t, "VHT", rows[1].Mode)
	assert.Equal(t, "TX", rows[1].Bandwidth)
	assert.Equal(t, "HE", rows[2].Mode)
	assert.Equal(t, "160 MHz", rows[5].Bandwidth)

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.ModeVHT, fe.Mode)
	assert.Equal(t, "wlan.vht.mcsset.rxmcsmap", fe.Field)
}

func TestAggregate_GuardIntervalNone(t *testing.T) {
	frame := domain.Frame{
		"wlan.mgt": map[string]any{
			"wlan.tagged.all": map[string]any{
				"wlan.tag": map[string]any{
					"wlan.tag.number": "45",
					"wlan.ht.capabilities_tree": map[string]any{
						"wlan.ht.capabilities.short20": "0",
						"wlan.ht.capabilities.short40": "0",
					},
				},
			},
		},
	}
	rows, err := Aggregate(frame)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.StringPtr("none"), rows[0].GuardInterval)
	assert.Zero(t, rows[0].NSS)
}

func TestAggregate_MalformedGuardIntervalStillEmitsRow(t *testing.T) {
	frame := domain.Frame{
		"wlan.mgt": map[string]any{
			"wlan.tagged.all": map[string]any{
				"wlan.tag": map[string]any{
					"wlan.tag.number": "45",
					"wlan.ht.capabilities_tree": map[string]any{
						"wlan.ht.capabilities.short20": "maybe",
					},
					"wlan.ht.mcsset": map[string]any{
						"wlan.ht.mcsset.rxbitmask": map[string]any{"wlan.ht.mcsset.rxbitmask.0to7": "0xff"},
					},
				},
			},
		},
	}
	rows, err := Aggregate(frame)
	require.ErrorIs(t, err, ErrMalformedField)
	assert.Contains(t, err.Error(), "wlan.ht.capabilities.short20")
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].GuardInterval)
	assert.Equal(t, domain.IntPtr(7), rows[0].MaxMCS)
}

func TestDescribeFrame(t *testing.T) {
	info := DescribeFrame(wifi7Frame())
	assert.Equal(t, FrameInfo{SSID: "lab-ap", BSSID: "aa:bb:cc:00:11:22", Channel: 36}, info)
	assert.Equal(t, FrameInfo{}, DescribeFrame(domain.Frame{}))
}
