package trend

import (
	"math"

	"github.com/uyouii/littlesprout/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// OnlineChecker runs Bayesian online change point detection over a z-score
// series, with a Gaussian model of known variance per run.
type OnlineChecker struct {
	varX   float64 // known variance
	mean0  float64 // prior mean of a new run
	hazard float64

	datas           []model.SeriesPoint
	means           []float64
	invVariances    []float64 // 1 / Variance
	lastLogRunProbs []float64
	runLenLogProb   [][]float64
	runLenProb      [][]float64

	pMeans []float64 // prediction mean
	pVars  []float64 // prediction var

	changePoints []*model.ChangePoint
}

func NewOnlineChecker(varx, mean0, hazard float64) *OnlineChecker {
	return &OnlineChecker{
		varX:   varx,
		mean0:  mean0,
		hazard: hazard,

		datas:           []model.SeriesPoint{},
		means:           []float64{mean0},
		invVariances:    []float64{1 / varx},
		runLenLogProb:   [][]float64{{0}},
		runLenProb:      [][]float64{{1}},
		lastLogRunProbs: []float64{0},

		pMeans: []float64{},
		pVars:  []float64{},

		changePoints: []*model.ChangePoint{},
	}
}

// AppendPoint feeds the next record and reports a change point when the
// posterior now places the start of the current run at an earlier record.
func (b *OnlineChecker) AppendPoint(point model.SeriesPoint) (*model.ChangePoint, bool) {
	b.datas = append(b.datas, point)

	t := len(b.datas) // current time step

	// model predictions before seeing the point
	b.pMeans = append(b.pMeans, b.predictionMean(t))
	b.pVars = append(b.pVars, b.predictionVar(t))

	// density of the point under every run length hypothesis
	logPreProbs := b.logOfPreProb(t, point.Value)

	// the run continues, or it breaks here
	logGrowthProbs := b.calLogGrowthProbs(logPreProbs)
	logChangePointProb := b.calLogChangePointProb(logPreProbs)

	logRunProbs := append([]float64{logChangePointProb}, logGrowthProbs...)
	b.lastLogRunProbs = logRunProbs

	normalizeLogRunProbs := NormalizeData(logRunProbs)
	b.runLenLogProb = append(b.runLenLogProb, normalizeLogRunProbs)
	b.runLenProb = append(b.runLenProb, ListExp(normalizeLogRunProbs))

	b.updateGuassianParams(point.Value)

	return b.checkChangePoints(t)
}

func (b *OnlineChecker) checkChangePoints(t int) (*model.ChangePoint, bool) {
	probs := b.runLenProb[t]

	for j := MinRunLength; j < len(probs) && j <= ObserveWindow; j++ {
		if probs[j] < ChangePointThreshold {
			continue
		}
		changePointLoc := t - j
		if changePointLoc == 0 {
			return nil, false
		}

		changePoint := &model.ChangePoint{
			Index: changePointLoc,
			Point: b.datas[changePointLoc],
		}
		if b.datas[changePointLoc].Value > b.datas[changePointLoc-1].Value {
			changePoint.ChangePointType = model.IncreaseChangePoint
		} else {
			changePoint.ChangePointType = model.DecreaseChangePoint
		}

		if last, ok := b.LastChangePoint(); ok && last.Index == changePointLoc {
			return nil, false
		}
		b.changePoints = append(b.changePoints, changePoint)
		return changePoint, true
	}
	return nil, false
}

func (b *OnlineChecker) updateGuassianParams(x float64) {
	newInvVariances := make([]float64, len(b.invVariances))
	for i := range b.invVariances {
		newInvVariances[i] = b.invVariances[i] + 1/b.varX
	}

	for i := range b.means {
		b.means[i] = (b.means[i]*b.invVariances[i] + x/b.varX) / newInvVariances[i]
	}
	b.means = append([]float64{b.mean0}, b.means...)
	b.invVariances = append([]float64{1 / b.varX}, newInvVariances...)
}

func (b *OnlineChecker) logh() float64 {
	return math.Log(b.hazard)
}

func (b *OnlineChecker) log1mh() float64 {
	return math.Log(1 - b.hazard)
}

func (b *OnlineChecker) calLogChangePointProb(logPreProbs []float64) float64 {
	data := make([]float64, len(logPreProbs))
	for i := range logPreProbs {
		data[i] = logPreProbs[i] + b.lastLogRunProbs[i] + b.logh()
	}
	return LogSumExp(data)
}

func (b *OnlineChecker) calLogGrowthProbs(logPreProbs []float64) []float64 {
	logGrowthProbs := make([]float64, len(logPreProbs))
	for i := range logPreProbs {
		logGrowthProbs[i] = logPreProbs[i] + b.lastLogRunProbs[i] + b.log1mh()
	}
	return logGrowthProbs
}

// posterior predictive of x for each run length hypothesis
func (b *OnlineChecker) logOfPreProb(t int, x float64) []float64 {
	logProbs := make([]float64, t)
	variances := b.calVariances()

	for i := 0; i < t; i++ {
		normalDist := distuv.Normal{
			Mu:    b.means[i],
			Sigma: math.Sqrt(variances[i]),
		}
		logProbs[i] = normalDist.LogProb(x)
	}
	return logProbs
}

func (b *OnlineChecker) calVariances() []float64 {
	res := make([]float64, len(b.invVariances))
	for i := range b.invVariances {
		res[i] = 1/b.invVariances[i] + b.varX
	}
	return res
}

func (b *OnlineChecker) predictionMean(t int) float64 {
	return floats.Sum(ListMul(ListExp(b.runLenLogProb[t-1]), b.means))
}

func (b *OnlineChecker) predictionVar(t int) float64 {
	return floats.Sum(ListMul(ListExp(b.runLenLogProb[t-1]), b.calVariances()))
}

// GetPredictionMeans returns, per point, the z-score expected before it was seen.
func (b *OnlineChecker) GetPredictionMeans() []float64 {
	return b.pMeans
}

func (b *OnlineChecker) GetPredictionVariances() []float64 {
	return b.pVars
}

func (b *OnlineChecker) Datas() []model.SeriesPoint {
	return b.datas
}

func (b *OnlineChecker) DataSize() int {
	return len(b.datas)
}

func (b *OnlineChecker) GetChangePoints() []*model.ChangePoint {
	return b.changePoints
}

func (b *OnlineChecker) LastChangePoint() (*model.ChangePoint, bool) {
	if len(b.changePoints) > 0 {
		return b.changePoints[len(b.changePoints)-1], true
	}
	return nil, false
}
