package study

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// ID identifies an indicator
type ID int

const (
	SimpleMovingAverage ID = iota
	ExponentialMovingAverage
	TimeSeriesMovingAverage
	TriangularMovingAverage
	VariableMovingAverage
	VIDYA
	WellesWilderSmoothing
	WeightedMovingAverage
	WilliamsPctR
	WilliamsAccumulationDistribution
	VolumeOscillator
	VerticalHorizontalFilter
	UltimateOscillator
	TrueRange
	AverageTrueRange
	RainbowOscillator
	PriceOscillator
	ParabolicSAR
	MomentumOscillator
	MACD
	EaseOfMovement
	DirectionalMovementSystem
	DetrendedPriceOscillator
	ChandeMomentumOscillator
	ChaikinVolatility
	Aroon
	AroonOscillator
	LinearRegressionRSquared
	LinearRegressionForecast
	LinearRegressionSlope
	LinearRegressionIntercept
	PriceVolumeTrend
	PerformanceIndex
	CommodityChannelIndex
	ChaikinMoneyFlow
	WeightedClose
	VolumeROC
	TypicalPrice
	StandardDeviation
	PriceROC
	MedianPrice
	HighMinusLow
	BollingerBands
	FractalChaosBands
	HighLowBands
	MovingAverageEnvelope
	SwingIndex
	AccumulativeSwingIndex
	ComparativeRelativeStrength
	MassIndex
	MoneyFlowIndex
	NegativeVolumeIndex
	OnBalanceVolume
	PositiveVolumeIndex
	RelativeStrengthIndex
	TradeVolumeIndex
	StochasticOscillator
	StochasticMomentumIndex
	FractalChaosOscillator
	PrimeNumberOscillator
	PrimeNumberBands
	HistoricalVolatility
	MACDHistogram
	HHV
	LLV
	TimeSeriesForecast
	TRIX
	ElderRay
	ElderForceIndex
	ElderThermometer
	EhlerFisherTransform
	KeltnerChannel
	MarketFacilitationIndex
	SchaffTrendCycle
	QStick
	STARC
	CenterOfGravity
	CoppockCurve
	ChandeForecastOscillator
	GopalakrishnanRangeIndex
	IntradayMomentumIndex
	KlingerVolumeOscillator
	PrettyGoodOscillator
	RAVI
	RandomWalkIndex
	TwiggsMoneyFlow
	_ // 86 is reserved
	IchimokuCloud
	DarvasBox
	McGinleysDynamic
	SuperTrend
	VolumeWeightedAveragePrice
	PivotPoints
)

const (
	Volume        ID = 1000
	ColoredVolume ID = 1001
)

// String returns the full indicator name
func (id ID) String() string {
	if def, ok := registry[id]; ok {
		return def.name
	}
	return fmt.Sprintf("ID(%d)", int(id))
}

// Known reports whether id has a registered definition
func (id ID) Known() bool {
	_, ok := registry[id]
	return ok
}

// IDs lists every registered indicator in ascending order
func IDs() []ID {
	ids := lo.Keys(registry)
	slices.Sort(ids)
	return ids
}

// Lookup finds an indicator by alias or full name, ignoring case
func Lookup(name string) (ID, bool) {
	for _, id := range IDs() {
		def := registry[id]
		if equalFold(def.alias, name) || equalFold(def.name, name) || equalFold(def.short, name) {
			return id, true
		}
	}
	return 0, false
}
