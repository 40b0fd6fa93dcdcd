package domain

// Frame is the dissector's per-packet "layers" object: a nested string-keyed
// mapping whose leaves are hex, decimal or "0"/"1" strings.
type Frame map[string]any

// Element is a single tagged or extension-tagged information element.
type Element map[string]any

// Standard and extension element IDs decoded by the capability aggregator.
const (
	TagSSID               = 0
	TagDSParameterSet     = 3
	TagHTCapabilities     = 45  // 802.11n
	TagVHTCapabilities    = 191 // 802.11ac
	TagExtension          = 255
	ExtTagHECapabilities  = 35  // 802.11ax
	ExtTagEHTCapabilities = 108 // 802.11be
)

// Dissector field names. They follow Wireshark's 802.11 dissector so that
// frames produced by tshark and by the native dissector share one layout.
const (
	FieldWLAN           = "wlan"
	FieldWLANMgt        = "wlan.mgt"
	FieldTaggedAll      = "wlan.tagged.all"
	FieldTag            = "wlan.tag"
	FieldExtTag         = "wlan.ext_tag"
	FieldTagNumber      = "wlan.tag.number"
	FieldExtTagNumber   = "wlan.ext_tag.number"
	FieldBSSID          = "wlan.bssid"
	FieldTypeSubtype    = "wlan.fc.type_subtype"
	FieldSSID           = "wlan.ssid"
	FieldCurrentChannel = "wlan.ds.current_channel"

	FieldHTMCSSet       = "wlan.ht.mcsset"
	FieldHTRxBitmask    = "wlan.ht.mcsset.rxbitmask"
	FieldHTRxBitmaskPfx = "wlan.ht.mcsset.rxbitmask."
	FieldHTCapTree      = "wlan.ht.capabilities_tree"
	FieldHTShort20      = "wlan.ht.capabilities.short20"
	FieldHTShort40      = "wlan.ht.capabilities.short40"

	FieldVHTMCSSet   = "wlan.vht.mcsset"
	FieldVHTRxMCSMap = "wlan.vht.mcsset.rxmcsmap"
	FieldVHTTxMCSMap = "wlan.vht.mcsset.txmcsmap"
	FieldVHTCapTree  = "wlan.vht.capabilities_tree"
	FieldVHTShort80  = "wlan.vht.capabilities.short80"
	FieldVHTShort160 = "wlan.vht.capabilities.short160"

	FieldHEMCSSet   = "Supported HE-MCS and NSS Set"
	FieldHEMaps80   = "Rx and Tx MCS Maps <= 80 MHz"
	FieldHEMaps160  = "Rx and Tx MCS Maps 160 MHz"
	FieldHERxMap80  = "wlan.ext_tag.he_mcs_map.rx_he_mcs_map_lte_80"
	FieldHETxMap80  = "wlan.ext_tag.he_mcs_map.tx_he_mcs_map_lte_80"
	FieldHERxMap160 = "wlan.ext_tag.he_mcs_map.rx_he_mcs_map_160"
	FieldHETxMap160 = "wlan.ext_tag.he_mcs_map.tx_he_mcs_map_160"

	FieldEHTMCSSet = "Supported EHT-MCS and NSS Set"
	FieldEHTMap80  = "wlan.eht.supported_eht_mcs_bss_set.eht_mcs_map_bw_le_80_mhz"
	FieldEHTMap160 = "wlan.eht.supported_eht_mcs_bss_set.eht_mcs_map_bw_eq_160_mhz"
	FieldEHTMap320 = "wlan.eht.supported_eht_mcs_bss_set.eht_mcs_map_bw_eq_320_mhz"
)
