package protocol

// MessageID identifies the kind of TTC message at the start of a DATA
// packet's logical payload, driving the ResponseDecoder's dispatch.
type MessageID uint8

const (
	MessageDescribeInfo        MessageID = 0x10
	MessageRowHeader           MessageID = 0x07
	MessageRowData             MessageID = 0x06
	MessageBitVector           MessageID = 0x15
	MessageIOVector            MessageID = 0x0C
	MessageFlushOutBinds       MessageID = 0x14
	MessageError               MessageID = 0x04
	MessageWarning             MessageID = 0x0D
	MessageImplicitResultset   MessageID = 0x1B
	MessageServerSidePiggyback MessageID = 0x22
	MessageStatus              MessageID = 0x09
)

// PiggybackOpCode enumerates the server-side piggyback sub-messages;
// decodePiggyback reads each of them as a length-prefixed payload.
type PiggybackOpCode uint8

const (
	PiggybackLTXID                  PiggybackOpCode = 0x04
	PiggybackQueryCacheInvalidation PiggybackOpCode = 0x06
	PiggybackTraceEvent             PiggybackOpCode = 0x0A
	PiggybackOSPidMTS               PiggybackOpCode = 0x0C
	PiggybackSync                   PiggybackOpCode = 0x0F
	PiggybackExtSync                PiggybackOpCode = 0x15
	PiggybackACReplayContext        PiggybackOpCode = 0x21
	PiggybackSessRet                PiggybackOpCode = 0x23
)

// ExecuteFlag is one bit of the executor's options word.
type ExecuteFlag uint32

const (
	ExecuteFlagParse ExecuteFlag = 1 << iota
	ExecuteFlagExecute
	ExecuteFlagFetch
	ExecuteFlagDescribe
	ExecuteFlagDefine
	ExecuteFlagCommit
	ExecuteFlagNotPLSQL
	ExecuteFlagPLSQLBind
	ExecuteFlagBind
	ExecuteFlagBatchErrors
	ExecuteFlagDMLRowCounts
	ExecuteFlagImplicitResultset
)
