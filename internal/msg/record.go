package msg

// Record is a consumed feed record handed to the subscription handler
type Record struct {
	Topic     string
	Key       string
	Value     []byte
	Partition int32
	Offset    int64
	Timestamp int64
}
