package stmt

// DataType is an ORA wire data type code, as sent in bind metadata and
// DescribeInfo column definitions.
type DataType uint8

// A subset of the ORA wire type codes relevant to charset conversion and
// bind encoding. Values follow the conventional Oracle OCI type numbering.
const (
	DataTypeVarchar2     DataType = 1
	DataTypeNumber       DataType = 2
	DataTypeLong         DataType = 8
	DataTypeRowID        DataType = 11
	DataTypeDate         DataType = 12
	DataTypeRaw          DataType = 23
	DataTypeLongRaw      DataType = 24
	DataTypeClob         DataType = 112
	DataTypeBlob         DataType = 113
	DataTypeChar         DataType = 96
	DataTypeBinaryFloat  DataType = 100
	DataTypeBinaryDouble DataType = 101
	DataTypeTimestamp    DataType = 180
	DataTypeTimestampTZ  DataType = 181
	DataTypeIntervalDS   DataType = 183
	DataTypeTimestampLTZ DataType = 231
)

// Binding is one bind position's metadata: what it looks like on the wire,
// independent of the value(s) actually bound in any given execution.
type Binding struct {
	Name string // colon-style bind name, or positional index as text
	Metadata
	// IsReturn marks a bind that is a RETURNING...INTO target rather than
	// an input value.
	IsReturn bool
	// RefID identifies an OracleRef-bound position: a bind that is both
	// input and output binds once by identity, and subsequent references
	// to the same Go value reuse this position instead of allocating a
	// new one.
	RefID uint64
}

// Metadata describes a bind position's wire shape. Across accumulated batch
// rows, BufferSize, ArrayMaxSize and ArrayElements grow monotonically to
// the elementwise maximum seen so far (see GrowTo).
type Metadata struct {
	Type          DataType
	CharsetForm   uint8
	BufferSize    uint32
	IsArray       bool
	ArrayElements uint32
	ArrayMaxSize  uint32
	Protected     bool // excluded from logging/tracing surfaces
}

// GrowTo updates m in place to the elementwise maximum of m and other,
// implementing the batch bind-metadata growth invariant.
func (m *Metadata) GrowTo(other Metadata) {
	if other.BufferSize > m.BufferSize {
		m.BufferSize = other.BufferSize
	}
	if other.ArrayMaxSize > m.ArrayMaxSize {
		m.ArrayMaxSize = other.ArrayMaxSize
	}
	if other.ArrayElements > m.ArrayElements {
		m.ArrayElements = other.ArrayElements
	}
	if other.IsArray {
		m.IsArray = true
	}
}
