// Package dataset は回帰用の表形式データの読み込みを提供します。
//
// CSVファイルを特徴量行列とラベルベクトルに分解し、linearパッケージが
// そのまま受け取れる形式で返します。数値以外のフィールドや行長の不一致は
// 読み込み時点でエラーとして報告されます。
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/olsgo/pkg/errors"
)

// Dataset は読み込んだ学習データを保持します。
//
// Featuresは1行1サンプルの特徴量、Labelsは対応する目的変数です。
// FeatureNamesはヘッダー行がある場合のみ設定されます。
type Dataset struct {
	Features     [][]float64
	Labels       []float64
	FeatureNames []string
}

type loadConfig struct {
	hasHeader   bool
	labelColumn int
	comma       rune
}

// LoadOption はLoadの動作を調整するオプションです。
type LoadOption func(*loadConfig)

// WithHeader は1行目をヘッダーとして扱うかどうかを指定します。
// デフォルトはtrueです。
func WithHeader(hasHeader bool) LoadOption {
	return func(c *loadConfig) {
		c.hasHeader = hasHeader
	}
}

// WithLabelColumn はラベルとして使う列番号（0始まり）を指定します。
// 負の値は末尾の列を意味します。デフォルトは末尾の列です。
func WithLabelColumn(col int) LoadOption {
	return func(c *loadConfig) {
		c.labelColumn = col
	}
}

// WithComma はフィールドの区切り文字を指定します。デフォルトは ',' です。
func WithComma(r rune) LoadOption {
	return func(c *loadConfig) {
		c.comma = r
	}
}

// Load はCSVファイルからデータセットを読み込みます。
//
// 1列をラベル、残りを特徴量として解釈します。全フィールドが
// float64として解釈できない場合はValueErrorを返します。
// 行ごとのフィールド数の不一致はencoding/csvの検査をそのまま通知します。
//
// 使用例:
//
//	ds, err := dataset.Load("housing.csv")
//	if err != nil {
//	    return err
//	}
//	reg, err := linear.New(ds.Features, ds.Labels)
func Load(path string, opts ...LoadOption) (*Dataset, error) {
	const op = "dataset.Load"

	cfg := &loadConfig{
		hasHeader:   true,
		labelColumn: -1,
		comma:       ',',
	}
	for _, opt := range opts {
		opt(cfg)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: failed to open %s", op, path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = cfg.comma
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		// 行長の不一致(csv.ErrFieldCount)もここで報告される
		return nil, errors.Wrapf(err, "%s: failed to read %s", op, path)
	}
	if len(records) == 0 {
		return nil, errors.NewModelError(op, "empty file", errors.ErrEmptyData)
	}

	var names []string
	dataStart := 0
	if cfg.hasHeader {
		names = records[0]
		dataStart = 1
	}
	rows := records[dataStart:]
	if len(rows) == 0 {
		return nil, errors.NewModelError(op, "no data rows", errors.ErrEmptyData)
	}

	cols := len(rows[0])
	if cols < 2 {
		return nil, errors.NewValueError(op,
			fmt.Sprintf("need at least 2 columns (features and label), got %d", cols))
	}

	labelCol := cfg.labelColumn
	if labelCol < 0 {
		labelCol = cols - 1
	}
	if labelCol >= cols {
		return nil, errors.NewValidationError("label_column",
			fmt.Sprintf("must be less than the number of columns (%d)", cols), cfg.labelColumn)
	}

	ds := &Dataset{
		Features: make([][]float64, len(rows)),
		Labels:   make([]float64, len(rows)),
	}
	if names != nil {
		ds.FeatureNames = make([]string, 0, cols-1)
		for j, name := range names {
			if j != labelCol {
				ds.FeatureNames = append(ds.FeatureNames, name)
			}
		}
	}

	for i, record := range rows {
		features := make([]float64, 0, cols-1)
		for j, field := range record {
			v, perr := strconv.ParseFloat(field, 64)
			if perr != nil {
				// 報告する行番号はファイル内の1始まりの行位置
				return nil, errors.NewValueError(op,
					fmt.Sprintf("row %d, column %d: cannot parse %q as a number", i+dataStart+1, j+1, field))
			}
			if j == labelCol {
				ds.Labels[i] = v
			} else {
				features = append(features, v)
			}
		}
		ds.Features[i] = features
	}

	return ds, nil
}

// NSamples はサンプル数を返します。
func (d *Dataset) NSamples() int { return len(d.Features) }

// NFeatures は特徴量の数を返します。
func (d *Dataset) NFeatures() int {
	if len(d.Features) == 0 {
		return 0
	}
	return len(d.Features[0])
}

// FeatureMatrix は特徴量をgonumの行列として返します。
func (d *Dataset) FeatureMatrix() *mat.Dense {
	n, p := d.NSamples(), d.NFeatures()
	if n == 0 || p == 0 {
		return &mat.Dense{}
	}
	m := mat.NewDense(n, p, nil)
	for i, row := range d.Features {
		m.SetRow(i, row)
	}
	return m
}

// LabelVector はラベルをgonumの列ベクトルとして返します。
func (d *Dataset) LabelVector() *mat.VecDense {
	if len(d.Labels) == 0 {
		return &mat.VecDense{}
	}
	return mat.NewVecDense(len(d.Labels), append([]float64(nil), d.Labels...))
}
