package callbacks

import "strings"

// telebot prefixes data of buttons built with a Unique id with a form feed.
const uniquePrefix = "\f"

// ParseData splits Telebot's \f<unique>|<payload> encoding. Plain data
// without the prefix is returned whole as the key.
func ParseData(raw string) (string, string) {
	raw = strings.TrimPrefix(raw, uniquePrefix)
	raw = strings.TrimPrefix(raw, `\f`)
	parts := strings.SplitN(raw, "|", 2)
	key := strings.TrimSpace(parts[0])
	payload := ""
	if len(parts) == 2 {
		payload = parts[1]
	}
	return key, payload
}

// Data reassembles key and payload into the routing string the dialog
// router matches on.
func Data(key, payload string) string {
	if payload == "" {
		return key
	}
	return key + "|" + payload
}
