// Package visualization は学習済みモデルの当てはまり具合を
// gonum/plotで画像ファイルとして描画するユーティリティを提供します。
//
// 出力形式は保存先のパスの拡張子（.png、.svg、.pdfなど）で決まります。
package visualization

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/olsgo/core/model"
	"github.com/YuminosukeSato/olsgo/pkg/errors"
)

// fitLineSamples は回帰直線を評価するグリッドの点数
const fitLineSamples = 100

// ScatterWithFit は単一特徴量の観測値の散布図と回帰直線を重ねて描画し、
// pathに保存します。
//
// xsは特徴量の値、ysは対応する目的変数の観測値です。回帰直線は
// xsの範囲を等間隔に分割した各点でmodelのPredictを評価して得られます。
func ScatterWithFit(m model.PointPredictor, xs, ys []float64, path string) error {
	const op = "visualization.ScatterWithFit"

	if m == nil {
		return errors.NewValueError(op, "model must not be nil")
	}
	if len(xs) == 0 || len(ys) == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if len(xs) != len(ys) {
		return errors.NewDimensionError(op, len(xs), len(ys), 0)
	}

	observed := make(plotter.XYs, len(xs))
	xmin, xmax := xs[0], xs[0]
	for i := range xs {
		observed[i].X = xs[i]
		observed[i].Y = ys[i]
		if xs[i] < xmin {
			xmin = xs[i]
		}
		if xs[i] > xmax {
			xmax = xs[i]
		}
	}

	fitted, err := fitLine(m, xmin, xmax)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Observed vs Fitted"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	scatter, err := plotter.NewScatter(observed)
	if err != nil {
		return errors.Wrapf(err, "%s: building scatter", op)
	}
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	scatter.GlyphStyle.Color = color.RGBA{B: 160, A: 255}

	line, err := plotter.NewLine(fitted)
	if err != nil {
		return errors.Wrapf(err, "%s: building fit line", op)
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = color.RGBA{R: 196, A: 255}

	p.Add(scatter, line)
	p.Legend.Add("observed", scatter)
	p.Legend.Add("fitted", line)
	p.Legend.Top = true

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "%s: saving plot to %s", op, path)
	}
	return nil
}

// Residuals は残差プロット（横軸が予測値、縦軸が残差）を描画し、
// pathに保存します。ゼロ残差の水平線を重ねて表示します。
//
// xtは1行1サンプルの特徴量、ysは対応する観測値です。特徴量の次元は
// 1つに限らず、予測値はmodelのPredictで計算されます。
func Residuals(m model.PointPredictor, xt [][]float64, ys []float64, path string) error {
	const op = "visualization.Residuals"

	if m == nil {
		return errors.NewValueError(op, "model must not be nil")
	}
	if len(xt) == 0 || len(ys) == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if len(xt) != len(ys) {
		return errors.NewDimensionError(op, len(xt), len(ys), 0)
	}

	residuals := make(plotter.XYs, len(xt))
	fmin := math.Inf(1)
	fmax := math.Inf(-1)
	for i, row := range xt {
		fitted, err := m.Predict(row)
		if err != nil {
			return errors.Wrapf(err, "%s: predicting sample %d", op, i)
		}
		residuals[i].X = fitted
		residuals[i].Y = ys[i] - fitted
		fmin = math.Min(fmin, fitted)
		fmax = math.Max(fmax, fitted)
	}

	p := plot.New()
	p.Title.Text = "Residuals vs Fitted"
	p.X.Label.Text = "fitted value"
	p.Y.Label.Text = "residual"
	p.Add(plotter.NewGrid())

	scatter, err := plotter.NewScatter(residuals)
	if err != nil {
		return errors.Wrapf(err, "%s: building scatter", op)
	}
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	scatter.GlyphStyle.Color = color.RGBA{B: 160, A: 255}

	zero, err := plotter.NewLine(plotter.XYs{{X: fmin, Y: 0}, {X: fmax, Y: 0}})
	if err != nil {
		return errors.Wrapf(err, "%s: building zero line", op)
	}
	zero.LineStyle.Width = vg.Points(1)
	zero.LineStyle.Color = color.RGBA{R: 128, G: 128, B: 128, A: 255}

	p.Add(scatter, zero)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "%s: saving plot to %s", op, path)
	}
	return nil
}

// fitLine は[xmin, xmax]を等間隔に分割した各点でモデルを評価する
func fitLine(m model.PointPredictor, xmin, xmax float64) (plotter.XYs, error) {
	if xmin == xmax {
		// 幅のない範囲では1点のみ評価する
		y, err := m.Predict([]float64{xmin})
		if err != nil {
			return nil, errors.Wrapf(err, "visualization: evaluating fit line at %v", xmin)
		}
		return plotter.XYs{{X: xmin, Y: y}}, nil
	}

	pts := make(plotter.XYs, fitLineSamples)
	step := (xmax - xmin) / float64(fitLineSamples-1)
	for i := range pts {
		x := xmin + float64(i)*step
		y, err := m.Predict([]float64{x})
		if err != nil {
			return nil, errors.Wrapf(err, "visualization: evaluating fit line at %v", x)
		}
		pts[i].X = x
		pts[i].Y = y
	}
	return pts, nil
}
