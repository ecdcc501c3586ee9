package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rushteam/hybridrec/core"
)

// LoadRatingsCSV 解析 `userId,itemId,rating` 格式的评分数据（每行一条）。
//
// 约定：
//   - 空行和以 # 开头的行被跳过
//   - 评分允许任意有限数字文本（"5"、"4.0"、"3.75"），NaN / Inf 视为格式错误
//   - 第 4 列及之后（如时间戳）被忽略
//
// 格式错误返回 INVALID_INPUT，并指出行号。
func LoadRatingsCSV(r io.Reader) ([]Rating, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []Rating
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, fmt.Sprintf("ratings csv: %v", err))
		}
		line, _ := cr.FieldPos(0)
		if len(record) < 3 {
			return nil, invalidLine(line, "expected userId,itemId,rating")
		}
		userID, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		if err != nil {
			return nil, invalidLine(line, "bad user id "+strconv.Quote(record[0]))
		}
		itemID, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
		if err != nil {
			return nil, invalidLine(line, "bad item id "+strconv.Quote(record[1]))
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return nil, invalidLine(line, "bad rating "+strconv.Quote(record[2]))
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, invalidLine(line, "bad rating "+strconv.Quote(record[2])+": not a finite number")
		}
		out = append(out, Rating{UserID: userID, ItemID: itemID, Value: value})
	}
	return out, nil
}

// ReadRatingStore 读取 CSV 并构建 RatingStore。
func ReadRatingStore(r io.Reader) (*RatingStore, error) {
	ratings, err := LoadRatingsCSV(r)
	if err != nil {
		return nil, err
	}
	return NewRatingStoreFrom(ratings), nil
}

// WriteRatingsCSV 以 `userId,itemId,rating` 格式写出全部评分，评分保留一位小数。
func WriteRatingsCSV(w io.Writer, s *RatingStore) error {
	cw := csv.NewWriter(w)
	for _, r := range s.Ratings() {
		rec := []string{
			strconv.FormatInt(r.UserID, 10),
			strconv.FormatInt(r.ItemID, 10),
			strconv.FormatFloat(r.Value, 'f', 1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write rating %d,%d: %w", r.UserID, r.ItemID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func invalidLine(line int, msg string) error {
	return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, fmt.Sprintf("ratings csv line %d: %s", line, msg))
}
