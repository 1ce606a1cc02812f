package domain

// ASNBlock is one row of asn_blocks. Number and organization are unknown for
// some ranges.
type ASNBlock struct {
	Network      string `gorm:"column:network;not null"`
	PrefixLength int64  `gorm:"column:prefix_length;not null"`
	IPVersion    int64  `gorm:"column:ip_version;not null;index:idx_asn_blocks_range,priority:1"`
	NetworkStart int64  `gorm:"column:network_start;not null;index:idx_asn_blocks_range,priority:2"`
	NetworkEnd   int64  `gorm:"column:network_end;not null;index:idx_asn_blocks_range,priority:3"`

	AutonomousSystemNumber       *int64  `gorm:"column:autonomous_system_number"`
	AutonomousSystemOrganization *string `gorm:"column:autonomous_system_organization"`
}

func (ASNBlock) TableName() string {
	return "asn_blocks"
}

// ASNMatch is the longest-prefix asn_blocks row for a key.
type ASNMatch struct {
	Network      string `gorm:"column:network"`
	PrefixLength int64  `gorm:"column:prefix_length"`
	IPVersion    int64  `gorm:"column:ip_version"`

	AutonomousSystemNumber       *int64  `gorm:"column:autonomous_system_number"`
	AutonomousSystemOrganization *string `gorm:"column:autonomous_system_organization"`
}
