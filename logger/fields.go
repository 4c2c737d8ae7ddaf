package logger

// Standard field key constants for structured logging.
const (
	FieldComponent = "component"
	FieldClientID  = "client_id"
	FieldTopic     = "topic"
	FieldSize      = "size_bytes"
	FieldError     = "error"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	log.Info("published", logger.Fields("topic", "audio_chunks", "size_bytes", 17))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}
