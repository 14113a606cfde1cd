package gyeonggibus

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// flexString принимает как строку, так и число: API отдаёт id и номера маршрутов по-разному
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch val := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = flexString(val)
	case float64:
		*s = flexString(fmt.Sprintf("%.0f", val))
	default:
		*s = flexString(fmt.Sprintf("%v", val))
	}
	return nil
}

// decodeList разбирает список, который при одном элементе приходит объектом
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	if raw[0] == '{' {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, err
		}
		return []T{item}, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

type msgHeader struct {
	ResultCode    int    `json:"resultCode"`
	ResultMessage string `json:"resultMessage"`
}

type response struct {
	Response struct {
		MsgHeader msgHeader                  `json:"msgHeader"`
		MsgBody   map[string]json.RawMessage `json:"msgBody"`
	} `json:"response"`
}

type stationItem struct {
	StationID   flexString `json:"stationId"`
	StationName string     `json:"stationName"`
	StationSeq  int        `json:"stationSeq"`
	X           float64    `json:"x"`
	Y           float64    `json:"y"`
}

type routeItem struct {
	RouteID   flexString `json:"routeId"`
	RouteName flexString `json:"routeName"`
}

type routeInfoItem struct {
	RouteID      flexString `json:"routeId"`
	UpLastTime   string     `json:"upLastTime"`
	DownLastTime string     `json:"downLastTime"`
}
