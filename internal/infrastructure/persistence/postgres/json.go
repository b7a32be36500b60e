package postgres

import "encoding/json"

func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeJSON(data string, v any) error {
	return json.Unmarshal([]byte(data), v)
}
