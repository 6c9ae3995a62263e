package study

import (
	"math"

	"github.com/raykavin/tasdk/pkg/core"
	"github.com/raykavin/tasdk/pkg/indicator"
)

func closeSource(periods int) Params {
	return Params{ParamSource: core.SuffixClose, ParamPeriods: periods}
}

// sourceStudy wraps an algorithm of the (source, periods, alias) shape
func sourceStudy(name, short, alias string, overlay bool, fn func(*core.Field, int, string) *core.Recordset) *definition {
	return &definition{
		name: name, short: short, alias: alias, overlay: overlay,
		fields:   []string{FieldIndicator},
		defaults: closeSource(14),
		compute: func(in *input) output {
			p := in.periods()
			return output{rs: fn(in.source(), p, FieldIndicator), title: []any{in.sourceName(), p}}
		},
	}
}

// barsStudy wraps an algorithm of the (ohlcv, periods, alias) shape
func barsStudy(name, short, alias string, fn func(*core.Recordset, int, string) *core.Recordset) *definition {
	return &definition{
		name: name, short: short, alias: alias,
		fields:   []string{FieldIndicator},
		defaults: Params{ParamPeriods: 14},
		compute: func(in *input) output {
			p := in.periods()
			return output{rs: fn(in.ohlcv(), p, FieldIndicator), title: []any{p}}
		},
	}
}

// priceStudy wraps an algorithm that reads whole bars and takes no parameters
func priceStudy(name, alias string, overlay bool, fn func(*core.Recordset, string) *core.Recordset) *definition {
	return &definition{
		name: name, short: name, alias: alias, overlay: overlay,
		fields: []string{FieldIndicator},
		start:  fixedStart(1),
		compute: func(in *input) output {
			return output{rs: fn(in.ohlcv(), FieldIndicator)}
		},
	}
}

// volumeStudy wraps an algorithm of the (source, volume, alias) shape
func volumeStudy(name, alias string, fn func(source, volume *core.Field, alias string) *core.Recordset) *definition {
	return &definition{
		name: name, short: name, alias: alias,
		fields:   []string{FieldIndicator},
		defaults: Params{ParamSource: core.SuffixClose},
		start:    fixedStart(1),
		compute: func(in *input) output {
			rs := fn(in.source(), in.channel(core.SuffixVolume), FieldIndicator)
			return output{rs: rs, title: []any{in.sourceName()}}
		},
	}
}

func regressionStudy(name, alias, field string) *definition {
	return &definition{
		name: name, short: name, alias: alias, overlay: field == FieldForecast,
		fields:   []string{field},
		defaults: closeSource(14),
		compute: func(in *input) output {
			p := in.periods()
			return output{rs: indicator.Regression(in.source(), p), title: []any{in.sourceName(), p}}
		},
	}
}

func init() {
	registerAverages()
	registerOscillators()
	registerBands()
	registerIndices()
	registerGeneral()
}

func registerAverages() {
	register(SimpleMovingAverage, sourceStudy("Simple Moving Average", "SMA", "SMA", true, indicator.SimpleMovingAverage))
	register(ExponentialMovingAverage, sourceStudy("Exponential Moving Average", "EMA", "EMA", true, indicator.ExponentialMovingAverage))
	register(TimeSeriesMovingAverage, sourceStudy("Time Series Moving Average", "TSMA", "TSMA", true, indicator.TimeSeriesMovingAverage))
	register(WeightedMovingAverage, sourceStudy("Weighted Moving Average", "WMA", "WMS", true, indicator.WeightedMovingAverage))
	register(McGinleysDynamic, sourceStudy("McGinleys Dynamic", "McGinleys Dynamic", "MGD", true, indicator.McGinleyDynamic))

	for id, def := range map[ID]*definition{
		TriangularMovingAverage: sourceStudy("Triangular Moving Average", "TMA", "TMA", true, indicator.TriangularMovingAverage),
		VariableMovingAverage:   sourceStudy("Variable Moving Average", "VMA", "VMA", true, indicator.VariableMovingAverage),
		WellesWilderSmoothing:   sourceStudy("Welles Wilder Smoothing", "Welles Wilder Smoothing", "WWS", true, indicator.WellesWilderSmoothing),
	} {
		def.start = periodsTimes(2)
		register(id, def)
	}

	register(VIDYA, &definition{
		name: "Volatility Index Dynamic Average", short: "VIDYA", alias: "VIDYA", overlay: true,
		fields:   []string{FieldIndicator},
		defaults: Params{ParamSource: core.SuffixClose, ParamPeriods: 14, ParamR2Scale: 0.65},
		start:    fixedStart(2),
		compute: func(in *input) output {
			p, r2 := in.periods(), in.params.Float(ParamR2Scale)
			return output{
				rs:    indicator.VIDYA(in.source(), p, r2, FieldIndicator),
				title: []any{in.sourceName(), p, r2},
			}
		},
	})
}

func registerOscillators() {
	wpr := barsStudy("Williams %R", "Williams %R", "WPR", indicator.WilliamsPctR)
	wpr.start = periodsTimes(2)
	register(WilliamsPctR, wpr)

	register(WilliamsAccumulationDistribution, priceStudy("Williams Accumulation Distribution", "WAD", false, indicator.WilliamsAccumulationDistribution))
	register(UltimateOscillator, &definition{
		name: "Ultimate Oscillator", short: "Ultimate Oscillator", alias: "UO",
		fields:   []string{FieldIndicator},
		defaults: Params{ParamCycle1: 3, ParamCycle2: 8, ParamCycle3: 14},
		start:    maxPlusOne(ParamCycle1, ParamCycle2, ParamCycle3),
		compute: func(in *input) output {
			c1, c2, c3 := in.params.Int(ParamCycle1), in.params.Int(ParamCycle2), in.params.Int(ParamCycle3)
			return output{
				rs:    indicator.UltimateOscillator(in.ohlcv(), c1, c2, c3, FieldIndicator),
				title: []any{c1, c2, c3},
			}
		},
	})
	register(VolumeOscillator, &definition{
		name: "Volume Oscillator", short: "Volume Oscillator", alias: "V0",
		fields:   []string{FieldIndicator},
		defaults: Params{ParamShortTerm: 8, ParamLongTerm: 14, ParamPointsOrPercent: indicator.VolumeOscPercent},
		start:    maxPlusOne(ParamShortTerm, ParamLongTerm),
		compute: func(in *input) output {
			short, long, mode := in.params.Int(ParamShortTerm), in.params.Int(ParamLongTerm), in.params.Int(ParamPointsOrPercent)
			return output{
				rs:    indicator.VolumeOscillator(in.channel(core.SuffixVolume), short, long, mode, FieldIndicator),
				title: []any{short, long, mode},
			}
		},
	})
	register(VerticalHorizontalFilter, sourceStudy("Vertical Horizontal Filter", "Vertical Horizontal Filter", "VHF", false, indicator.VerticalHorizontalFilter))
	register(ChandeMomentumOscillator, sourceStudy("Chande Momentum Oscillator", "Chande Momentum Oscillator", "CMO", false, indicator.ChandeMomentumOscillator))
	register(CenterOfGravity, sourceStudy("Center Of Gravity", "Center Of Gravity", "COG", false, indicator.CenterOfGravity))
	register(ChandeForecastOscillator, sourceStudy("Chande Forecast Oscillator", "Chande Forecast Oscillator", "CFO", false, indicator.ChandeForecastOscillator))

	trix := sourceStudy("TRIX", "TRIX", "TRIX", false, indicator.TRIX)
	trix.start = periodsTimes(2)
	register(TRIX, trix)

	momentum := sourceStudy("Momentum Oscillator", "Momentum Oscillator", "MO", false, indicator.Momentum)
	momentum.start = periodsPlus(2)
	register(MomentumOscillator, momentum)

	register(TrueRange, &definition{
		name: "True Range", short: "True Range", alias: "TR",
		fields: []string{FieldIndicator},
		start:  fixedStart(2),
		compute: func(in *input) output {
			return output{rs: indicator.TrueRange(in.ohlcv(), FieldIndicator)}
		},
	})
	register(AverageTrueRange, &definition{
		name: "Average True Range", short: "ATR", alias: "ATR",
		fields:   []string{FieldIndicator},
		defaults: Params{ParamPeriods: 14},
		compute: func(in *input) output {
			p := in.periods()
			tr := indicator.TrueRange(in.ohlcv(), "TR").Field("TR")
			return output{rs: indicator.SimpleMovingAverage(tr, p, FieldIndicator), title: []any{p}}
		},
	})
	register(RainbowOscillator, &definition{
		name: "Rainbow Oscillator", short: "Rainbow Oscillator", alias: "RO",
		fields:   []string{FieldIndicatorHigh, FieldIndicatorLow, FieldHistogramHigh, FieldHistogramLow},
		defaults: Params{ParamSource: core.SuffixClose, ParamLevels: 2, ParamPeriods: 10, ParamMAType: indicator.SMA},
		start:    func(p Params) int { return p.Int(ParamLevels) + 1 },
		compute: func(in *input) output {
			levels, p, ma := in.params.Int(ParamLevels), in.periods(), in.maType()
			return output{
				rs:    indicator.RainbowOscillator(in.source(), levels, ma, p, FieldIndicatorHigh, FieldIndicatorLow),
				title: []any{in.sourceName(), levels, p, ma},
			}
		},
	})
	register(PriceOscillator, &definition{
		name: "Price Oscillator", short: "Price Oscillator", alias: "PO",
		fields:   []string{FieldIndicator},
		defaults: Params{ParamSource: core.SuffixClose, ParamLongCycle: 8, ParamShortCycle: 3, ParamMAType: indicator.SMA},
		start:    maxPlusOne(ParamLongCycle, ParamShortCycle),
		compute: func(in *input) output {
			long, short, ma := in.params.Int(ParamLongCycle), in.params.Int(ParamShortCycle), in.maType()
			return output{
				rs:    indicator.PriceOscillator(in.source(), long, short, ma, FieldIndicator),
				title: []any{in.sourceName(), long, short, ma},
			}
		},
	})
	register(ParabolicSAR, &definition{
		name: "Parabolic SAR", short: "PSAR", alias: "PSAR", overlay: true,
		fields:   []string{FieldIndicator},
		defaults: Params{ParamMinAF: 0.02, ParamMaxAF: 0.2},
		start:    fixedStart(2),
		compute: func(in *input) output {
			minAF, maxAF := in.params.Float(ParamMinAF), in.params.Float(ParamMaxAF)
			high, low := in.channel(core.SuffixHigh), in.channel(core.SuffixLow)
			return output{rs: indicator.ParabolicSAR(high, low, minAF, maxAF, FieldIndicator), title: []any{minAF, maxAF}}
		},
	})

	macdStart := func(p Params) int {
		return int(math.Trunc(float64(max(p.Int(ParamLongCycle), p.Int(ParamShortCycle))) * 2.25))
	}
	macdDefaults := Params{
		ParamSource: core.SuffixClose, ParamSignalPeriods: 3, ParamLongCycle: 25, ParamShortCycle: 13, ParamMAType: indicator.SMA,
	}
	register(MACD, &definition{
		name: "MACD", short: "MACD", alias: "MACD",
		fields:   []string{FieldIndicator, FieldSignal, FieldHistogram},
		defaults: macdDefaults,
		start:    macdStart,
		compute: func(in *input) output {
			signal, long, short, ma := in.params.Int(ParamSignalPeriods), in.params.Int(ParamLongCycle), in.params.Int(ParamShortCycle), in.maType()
			src := in.source()
			rs := indicator.MACD(src, signal, long, short, ma, FieldIndicator)
			rs.Merge(indicator.MACDHistogram(src, signal, long, short, ma, FieldHistogram))
			return output{rs: rs, title: []any{in.sourceName(), signal, long, short, ma}}
		},
	})
	register(MACDHistogram, &definition{
		name: "MACD Histogram", short: "MACD Histogram", alias: "MACDH",
		fields:   []string{FieldHistogram},
		defaults: macdDefaults.Clone(),
		start:    macdStart,
		compute: func(in *input) output {
			signal, long, short, ma := in.params.Int(ParamSignalPeriods), in.params.Int(ParamLongCycle), in.params.Int(ParamShortCycle), in.maType()
			return output{
				rs:    indicator.MACDHistogram(in.source(), signal, long, short, ma, FieldHistogram),
				title: []any{in.sourceName(), signal, long, short, ma},
			}
		},
	})
	register(EaseOfMovement, &definition{
		name: "Ease Of Movement", short: "Ease Of Movement", alias: "EOM",
		fields:   []string{FieldIndicator},
		defaults: Params{ParamPeriods: 14, ParamMAType: indicator.SMA},
		compute: func(in *input) output {
			p, ma := in.periods(), in.maType()
			return output{rs: indicator.EaseOfMovement(in.ohlcv(), p, ma, FieldIndicator), title: []any{p, ma}}
		},
	})
	register(DirectionalMovementSystem, &definition{
		name: "Directional Movement System", short: "Directional Movement System", alias: "DMS",
		fields:   []string{FieldADX, FieldDIPlus, FieldDIMinus},
		defaults: Params{ParamPeriods: 14},
		start:    periodsTimes(2),
		compute: func(in *input) output {
			p := in.periods()
			return output{rs: indicator.DirectionalMovementSystem(in.ohlcv(), p), title: []any{p}}
		},
	})
	register(DetrendedPriceOscillator, &definition{
		name: "Detrended Price Oscillator", short: "Detrended Price Oscillator", alias: "DPO",
		fields:   []string{FieldIndicator},
		defaults: Params{ParamSource: core.SuffixClose, ParamPeriods: 14, ParamMAType: indicator.SMA},
		start:    periodsTimes(2),
		compute: func(in *input) output {
			p, ma := in.periods(), in.maType()
			return output{
				rs:    indicator.DetrendedPriceOscillator(in.source(), p, ma, FieldIndicator),
				title: []any{in.sourceName(), p, ma},
			}
		},
	})
	register(ChaikinVolatility, &definition{
		name: "Chaikin Volatility", short: "Chaikin Volatility", alias: "CV",
		fields:   []string{FieldIndicator},
		defaults: Params{ParamPeriods: 14, ParamRateOfChange: 2, ParamMAType: indicator.SMA},
		start:    periodsTimes(1.5),
		compute: func(in *input) output {
			p, roc, ma := in.periods(), in.params.Int(ParamRateOfChange), in.maType()
			return output{rs: indicator.ChaikinVolatility(in.ohlcv(), p, roc, ma, FieldIndicator), title: []any{p, roc, ma}}
		},
	})
	register(Aroon, &definition{
		name: "Aroon", short: "Aroon", alias: "AROON",
		fields:   []string{FieldAroonUp, FieldAroonDown},
		defaults: Params{ParamPeriods: 14},
		start:    periodsTimes(2),
		compute: func(in *input) output {
			p := in.periods()
			return output{rs: indicator.Aroon(in.ohlcv(), p), title: []any{p}}
		},
	})
	register(AroonOscillator, &definition{
		name: "Aroon Oscillator", short: "Aroon Oscillator", alias: "AO",
		fields:   []string{FieldAroonOscillator},
		defaults: Params{ParamPeriods: 14},
		start:    periodsTimes(2),
		compute: func(in *input) output {
			p := in.periods()
			return output{rs: indicator.Aroon(in.ohlcv(), p), title: []any{p}}
		},
	})
	register(StochasticOscillator, &definition{
		name: "Stochastic Oscillator", short: "Stochastic Oscillator", alias: "SO",
		fields:   []string{FieldPctK, FieldPctD},
		defaults: Params{ParamKPeriods: 13, ParamKSmoothing: 25, ParamDPeriods: 9, ParamMAType: indicator.SMA},
		start:    maxPlusOne(ParamKPeriods, ParamDPeriods, ParamKSmoothing),
		compute: func(in *input) output {
			k, slowing, d, ma := in.params.Int(ParamKPeriods), in.params.Int(ParamKSmoothing), in.params.Int(ParamDPeriods), in.maType()
			return output{
				rs:    indicator.StochasticOscillator(in.ohlcv(), k, slowing, d, ma),
				title: []any{k, slowing, d, ma},
			}
		},
	})
	register(FractalChaosOscillator, barsStudy("Fractal Chaos Oscillator", "Fractal Chaos Oscillator", "FCO", indicator.FractalChaosOscillator))
	register(PrimeNumberOscillator, &definition{
		name: "Prime Number Oscillator", short: "Prime Number Oscillator", alias: "PNO",
		fields:   []string{FieldIndicator},
		defaults: Params{ParamSource: core.SuffixClose},
		start:    fixedStart(1),
		compute: func(in *input) output {
			return output{
				rs:    indicator.PrimeNumberOscillator(in.source(), FieldIndicator),
				title: []any{in.sourceName()},
			}
		},
	})
	register(ElderRay, &definition{
		name: "Elder Ray", short: "Elder Ray", alias: "ER",
		fields:   []string{FieldBullPower, FieldBearPower},
		defaults: Params{ParamPeriods: 14, ParamMAType: indicator.SMA},
		compute: func(in *input) output {
			p, ma := in.periods(), in.maType()
			rs := rename(indicator.ElderRay(in.ohlcv(), p, ma, "Elder Ray"),
				"Elder Ray Bull Power", FieldBullPower,
				"Elder Ray Bear Power", FieldBearPower)
			return output{rs: rs, title: []any{p, ma}}
		},
	})

	eft := barsStudy("Ehler Fisher Transform", "Ehler Fisher Transform", "EFT", indicator.EhlerFisherTransform)
	eft.fields = []string{FieldIndicator, FieldTrigger}
	eft.start = periodsPlus(2)
	register(EhlerFisherTransform, eft)

	register(SchaffTrendCycle, &definition{
		name: "Schaff Trend Cycle", short: "Schaff Trend Cycle", alias: "STC",
		fields: []string{FieldIndicator},
		defaults: Params{
			ParamSource: core.SuffixClose, ParamPeriods: 14, ParamShortCycle: 13, ParamLongCycle: 25, ParamMAType: indicator.SMA,
		},
		compute: func(in *input) output {
			p, short, long, ma := in.periods(), in.params.Int(ParamShortCycle), in.params.Int(ParamLongCycle), in.maType()
			return output{
				rs:    indicator.SchaffTrendCycle(in.source(), p, short, long, ma, FieldIndicator),
				title: []any{in.sourceName(), p, short, long, ma},
			}
		},
	})
	register(CoppockCurve, &definition{
		name: "Coppock Curve", short: "Coppock Curve", alias: "CC",
		fields:   []string{FieldIndicator},
		defaults: Params{ParamSource: core.SuffixClose},
		start:    fixedStart(12),
		compute: func(in *input) output {
			return output{rs: indicator.CoppockCurve(in.source(), FieldIndicator), title: []any{in.sourceName()}}
		},
	})
	register(KlingerVolumeOscillator, &definition{
		name: "Klinger Volume Oscillator", short: "Klinger Volume Oscillator", alias: "KVO",
		fields:   []string{FieldIndicator, FieldSignal},
		defaults: Params{ParamPeriods: 13, ParamLongCycle: 55, ParamShortCycle: 34, ParamMAType: indicator.SMA},
		start:    maxPlusOne(ParamPeriods, ParamShortCycle),
		compute: func(in *input) output {
			p, long, short, ma := in.periods(), in.params.Int(ParamLongCycle), in.params.Int(ParamShortCycle), in.maType()
			return output{
				rs:    indicator.KlingerVolumeOscillator(in.ohlcv(), p, long, short, ma, FieldIndicator),
				title: []any{p, short, long, ma},
			}
		},
	})

	pgo := barsStudy("Pretty Good Oscillator", "Pretty Good Oscillator", "PGO", indicator.PrettyGoodOscillator)
	register(PrettyGoodOscillator, pgo)

	register(SuperTrend, &definition{
		name: "Supertrend Oscillator", short: "Supertrend", alias: "STO", overlay: true,
		fields:   []string{FieldSuperTrend, FieldSuperTrendColor},
		defaults: Params{ParamSource: core.SuffixClose, ParamPeriods: 14, ParamMultiplier: 3},
		compute: func(in *input) output {
			p, mult := in.periods(), in.params.Float(ParamMultiplier)
			ohlcv := in.ohlcv()
			tr := indicator.TrueRange(ohlcv, "TR").Field("TR")
			rs := indicator.SuperTrendOscillator(in.source(), tr, p, FieldSuperTrend, mult,
				ohlcv.Field(indicator.FieldHigh), ohlcv.Field(indicator.FieldLow))
			return output{rs: rs, title: []any{in.sourceName(), p, mult}}
		},
	})
}

func registerBands() {
	register(BollingerBands, &definition{
		name: "Bollinger Bands", short: "Bollinger", alias: "BB", overlay: true,
		fields:   []string{FieldTop, FieldMedian, FieldBottom},
		defaults: Params{ParamSource: core.SuffixClose, ParamPeriods: 14, ParamStdDevs: 2, ParamMAType: indicator.SMA},
		compute: func(in *input) output {
			p, sd, ma := in.periods(), in.params.Float(ParamStdDevs), in.maType()
			rs := rename(indicator.BollingerBands(in.source(), p, sd, ma),
				indicator.FieldBollingerTop, FieldTop,
				indicator.FieldBollingerMedian, FieldMedian,
				indicator.FieldBollingerBottom, FieldBottom)
			return output{rs: rs, title: []any{in.sourceName(), p, sd, ma}}
		},
	})
	register(MovingAverageEnvelope, &definition{
		name: "Moving Average Envelope", short: "MA Env", alias: "MAE", overlay: true,
		fields:   []string{FieldTop, FieldMedian, FieldBottom},
		defaults: Params{ParamSource: core.SuffixClose, ParamPeriods: 14, ParamShift: 5, ParamMAType: indicator.SMA},
		compute: func(in *input) output {
			p, shift, ma := in.periods(), in.params.Float(ParamShift), in.maType()
			rs := rename(indicator.MovingAverageEnvelope(in.source(), p, ma, shift),
				indicator.FieldEnvelopeTop, FieldTop,
				indicator.FieldEnvelopeMedian, FieldMedian,
				indicator.FieldEnvelopeBottom, FieldBottom)
			return output{rs: rs, title: []any{in.sourceName(), p, shift, ma}}
		},
	})
	register(HighLowBands, &definition{
		name: "High Low Bands", short: "High Low Bands", alias: "HLB", overlay: true,
		fields:   []string{FieldTop, FieldMedian, FieldBottom},
		defaults: Params{ParamPeriods: 14},
		compute: func(in *input) output {
			p := in.periods()
			high, low, close := in.channel(core.SuffixHigh), in.channel(core.SuffixLow), in.channel(core.SuffixClose)
			rs := rename(indicator.HighLowBands(high, low, close, p),
				indicator.FieldHighLowTop, FieldTop,
				indicator.FieldHighLowMedian, FieldMedian,
				indicator.FieldHighLowBottom, FieldBottom)
			return output{rs: rs, title: []any{p}}
		},
	})
	register(FractalChaosBands, &definition{
		name: "Fractal Chaos Bands", short: "Fractal Chaos Bands", alias: "FCB", overlay: true,
		fields:   []string{FieldFractalHigh, FieldFractalLow},
		defaults: Params{ParamPeriods: 14},
		compute: func(in *input) output {
			p := in.periods()
			return output{rs: indicator.FractalChaosBands(in.ohlcv(), p), title: []any{p}}
		},
	})
	register(PrimeNumberBands, &definition{
		name: "Prime Number Bands", short: "Prime Number Bands", alias: "PNB", overlay: true,
		fields: []string{FieldTop, FieldBottom},
		start:  fixedStart(1),
		compute: func(in *input) output {
			rs := rename(indicator.PrimeNumberBands(in.channel(core.SuffixHigh), in.channel(core.SuffixLow)),
				indicator.FieldPrimeTop, FieldTop,
				indicator.FieldPrimeBottom, FieldBottom)
			return output{rs: rs}
		},
	})

	for id, def := range map[ID]*definition{
		KeltnerChannel: {name: "Keltner Channel", short: "Keltner Channel", alias: "KC"},
		STARC:          {name: "Stoller Average Range Channel", short: "Stoller Average Range Channel", alias: "STARC"},
	} {
		channel := def.short
		def.overlay = true
		def.fields = []string{FieldTop, FieldMedian, FieldBottom}
		def.defaults = Params{ParamPeriods: 14, ParamShift: 5, ParamMAType: indicator.SMA}
		def.compute = func(in *input) output {
			p, shift, ma := in.periods(), in.params.Float(ParamShift), in.maType()
			rs := rename(indicator.Keltner(in.ohlcv(), p, shift, ma, channel),
				channel+" Top", FieldTop,
				channel+" Median", FieldMedian,
				channel+" Bottom", FieldBottom)
			return output{rs: rs, title: []any{p, shift, ma}}
		}
		register(id, def)
	}

	register(IchimokuCloud, &definition{
		name: "Ichimoku Kinko Hyo", short: "Ichimoku Kinko Hyo", alias: "IC", overlay: true,
		fields: []string{FieldTenkanSen, FieldKijunSen, FieldChikouSpan, FieldSenkouSpanA, FieldSenkouSpanB},
		defaults: Params{
			ParamConversionPeriods: 9, ParamBasePeriods: 26, ParamLeadingSpanPeriods: 52, ParamDisplacement: 26,
		},
		start: fixedStart(1),
		compute: func(in *input) output {
			conv, base, lead := in.params.Int(ParamConversionPeriods), in.params.Int(ParamBasePeriods), in.params.Int(ParamLeadingSpanPeriods)
			shift := in.params.Int(ParamDisplacement)
			rs := rename(indicator.Ichimoku(in.ohlcv(), conv, base, lead),
				indicator.FieldTenkanSen, FieldTenkanSen,
				indicator.FieldKijunSen, FieldKijunSen,
				indicator.FieldChikouSpan, FieldChikouSpan,
				indicator.FieldSenkouSpanA, FieldSenkouSpanA,
				indicator.FieldSenkouSpanB, FieldSenkouSpanB)
			displace(rs, FieldChikouSpan, -shift)
			displace(rs, FieldSenkouSpanA, shift)
			displace(rs, FieldSenkouSpanB, shift)
			return output{rs: rs, title: []any{conv, base, lead, shift}}
		},
	})
	register(DarvasBox, &definition{
		name: "Darvas Box", short: "Darvas Box", alias: "DBOX", overlay: true,
		fields:   []string{FieldDarvasTop, FieldDarvasBottom},
		defaults: Params{ParamPeriods: 5},
		start:    fixedStart(1),
		compute: func(in *input) output {
			p := in.periods()
			return output{rs: indicator.DarvasBox(in.ohlcv(), p), title: []any{p}}
		},
	})
}

// displace moves a field by shift records. A positive shift projects it
// into the future and grows the field, a negative one pulls it into the
// past and leaves nulls at the end.
func displace(rs *core.Recordset, name string, shift int) {
	f := rs.Field(name)
	if shift == 0 || f.RecordCount == 0 {
		return
	}

	count := f.RecordCount
	if shift > 0 {
		count += shift
	}
	moved := core.NewField(count, name)
	for rec := 1; rec <= count; rec++ {
		src := rec - shift
		if src < 1 || src > f.RecordCount {
			moved.SetValue(rec, core.NullValue)
			continue
		}
		moved.SetValue(rec, f.Value(src))
	}
	rs.AddField(moved)
}

func registerIndices() {
	register(MoneyFlowIndex, barsStudy("Money Flow Index", "Money Flow Index", "MFI", indicator.MoneyFlowIndex))

	mass := barsStudy("Mass Index", "Mass Index", "MI", indicator.MassIndex)
	mass.start = periodsTimes(3)
	register(MassIndex, mass)

	register(ChaikinMoneyFlow, barsStudy("Chaikin Money Flow", "Chaikin Money Flow", "CMF", indicator.ChaikinMoneyFlow))

	cci := barsStudy("Commodity Channel Index", "Commodity Channel Index", "CCI", indicator.CommodityChannelIndex)
	cci.start = periodsTimes(2)
	register(CommodityChannelIndex, cci)

	register(GopalakrishnanRangeIndex, barsStudy("Gopalakrishnan Range Index", "Gopalakrishnan Range Index", "GRI", indicator.GopalakrishnanRangeIndex))
	register(TwiggsMoneyFlow, barsStudy("Twiggs Money Flow", "Twiggs Money Flow", "TMF", indicator.TwiggsMoneyFlow))

	rwi := barsStudy("Random Walk Index", "Random Walk Index", "RWI", indicator.RandomWalkIndex)
	rwi.fields = []string{FieldIndicatorHigh, FieldIndicatorLow}
	rwi.start = periodsTimes(2)
	register(RandomWalkIndex, rwi)

	for id, def := range map[ID]*definition{
		SwingIndex:             {name: "Swing Index", short: "Swing Index", alias: "SI"},
		AccumulativeSwingIndex: {name: "Accumulative Swing Index", short: "Accumulative Swing Index", alias: "ASI"},
	} {
		fn := indicator.SwingIndex
		if id == AccumulativeSwingIndex {
			fn = indicator.AccumulativeSwingIndex
		}
		def.fields = []string{FieldIndicator}
		def.defaults = Params{ParamLimitMove: 0.5}
		def.start = fixedStart(1)
		def.compute = func(in *input) output {
			limit := in.params.Float(ParamLimitMove)
			return output{rs: fn(in.ohlcv(), limit, FieldIndicator), title: []any{limit}}
		}
		register(id, def)
	}

	register(ComparativeRelativeStrength, &definition{
		name: "Comparative Relative Strength", short: "Comparative Relative Strength", alias: "CRS",
		fields:   []string{FieldIndicator},
		defaults: Params{ParamSource: core.SuffixClose, ParamSource2: core.SuffixOpen},
		start:    fixedStart(1),
		compute: func(in *input) output {
			second := in.params.String(ParamSource2)
			rs := indicator.ComparativeRelativeStrength(in.source(), in.channel(second), FieldIndicator)
			return output{rs: rs, title: []any{in.sourceName(), channelField(second)}}
		},
	})

	register(PriceVolumeTrend, volumeStudy("Price Volume Trend", "PVT", indicator.PriceVolumeTrend))
	register(PositiveVolumeIndex, volumeStudy("Positive Volume Index", "PVI", indicator.PositiveVolumeIndex))
	register(NegativeVolumeIndex, volumeStudy("Negative Volume Index", "NVI", indicator.NegativeVolumeIndex))
	register(OnBalanceVolume, volumeStudy("On Balance Volume", "OBV", indicator.OnBalanceVolume))

	register(PerformanceIndex, &definition{
		name: "Performance Index", short: "Performance Index", alias: "PI",
		fields:   []string{FieldIndicator},
		defaults: Params{ParamSource: core.SuffixClose},
		start:    fixedStart(1),
		compute: func(in *input) output {
			return output{rs: indicator.Performance(in.source(), FieldIndicator), title: []any{in.sourceName()}}
		},
	})

	rsi := sourceStudy("Relative Strength Index", "RSI", "RSI", false, indicator.RelativeStrengthIndex)
	rsi.start = periodsPlus(2)
	register(RelativeStrengthIndex, rsi)

	register(TradeVolumeIndex, &definition{
		name: "Trade Volume Index", short: "Trade Volume Index", alias: "TVI",
		fields:   []string{FieldIndicator},
		defaults: Params{ParamSource: core.SuffixClose, ParamMinTick: 0.5},
		start:    fixedStart(1),
		compute: func(in *input) output {
			tick := in.params.Float(ParamMinTick)
			rs := indicator.TradeVolumeIndex(in.source(), in.channel(core.SuffixVolume), tick, FieldIndicator)
			return output{rs: rs, title: []any{in.sourceName(), tick}}
		},
	})
	register(StochasticMomentumIndex, &definition{
		name: "Stochastic Momentum Index", short: "Stochastic Momentum Index", alias: "SMI",
		fields: []string{FieldPctD, FieldPctK},
		defaults: Params{
			ParamKPeriods: 13, ParamKSmoothing: 25, ParamKDoubleSmoothing: 2, ParamDPeriods: 9,
			ParamMAType: indicator.SMA, ParamDMAType: indicator.VIDYAType,
		},
		start: func(p Params) int {
			return p.Int(ParamKPeriods) + p.Int(ParamKSmoothing) + p.Int(ParamDPeriods)
		},
		compute: func(in *input) output {
			k, smooth, double, d := in.params.Int(ParamKPeriods), in.params.Int(ParamKSmoothing), in.params.Int(ParamKDoubleSmoothing), in.params.Int(ParamDPeriods)
			ma, dma := in.maType(), in.params.MAType(ParamDMAType)
			return output{
				rs:    indicator.StochasticMomentumIndex(in.ohlcv(), k, smooth, double, d, ma, dma),
				title: []any{k, smooth, double, d, ma, dma},
			}
		},
	})
	register(HistoricalVolatility, &definition{
		name: "Historical Volatility", short: "Historical Volatility", alias: "HV",
		fields:   []string{FieldIndicator},
		defaults: Params{ParamSource: core.SuffixClose, ParamPeriods: 14, ParamBarHistory: 10, ParamStdDevs: 2},
		compute: func(in *input) output {
			p, history, sd := in.periods(), in.params.Int(ParamBarHistory), in.params.Float(ParamStdDevs)
			return output{
				rs:    indicator.HistoricalVolatility(in.source(), p, history, sd, FieldIndicator),
				title: []any{in.sourceName(), p, history, sd},
			}
		},
	})

	efi := priceStudy("Elder Force Index", "EFI", false, func(ohlcv *core.Recordset, alias string) *core.Recordset {
		rs := indicator.ElderForceIndex(ohlcv, alias)
		signal := indicator.ExponentialMovingAverage(rs.Field(alias), 2, FieldSpacedSignal)
		rs.Merge(signal)
		return rs
	})
	efi.fields = []string{FieldIndicator, FieldSpacedSignal}
	efi.start = fixedStart(7)
	register(ElderForceIndex, efi)

	et := priceStudy("Elder Thermometer", "ET", false, indicator.ElderThermometer)
	et.start = fixedStart(2)
	register(ElderThermometer, et)

	mfi := priceStudy("Market Facilitation Index", "MFI", false, indicator.MarketFacilitationIndex)
	mfi.start = fixedStart(2)
	register(MarketFacilitationIndex, mfi)

	imi := priceStudy("Intraday Momentum Index", "IMI", false, indicator.IntradayMomentumIndex)
	imi.start = fixedStart(3)
	register(IntradayMomentumIndex, imi)

	register(QStick, &definition{
		name: "QStick", short: "QStick", alias: "QST",
		fields:   []string{FieldIndicator},
		defaults: Params{ParamPeriods: 14, ParamMAType: indicator.SMA},
		compute: func(in *input) output {
			p, ma := in.periods(), in.maType()
			return output{rs: indicator.QStick(in.ohlcv(), p, ma, FieldIndicator), title: []any{p, ma}}
		},
	})
	register(RAVI, &definition{
		name: "Range Action Verification Index", short: "RAVI", alias: "RAVI",
		fields:   []string{FieldIndicator},
		defaults: Params{ParamSource: core.SuffixClose, ParamShortCycle: 9, ParamLongCycle: 14},
		start:    func(p Params) int { return p.Int(ParamLongCycle) + 2 },
		compute: func(in *input) output {
			short, long := in.params.Int(ParamShortCycle), in.params.Int(ParamLongCycle)
			return output{
				rs:    indicator.RAVI(in.source(), short, long, FieldIndicator),
				title: []any{in.sourceName(), short, long},
			}
		},
	})
}

func registerGeneral() {
	register(LinearRegressionRSquared, regressionStudy("Linear Regression R-Squared", "LRR2", FieldRSquared))
	register(LinearRegressionForecast, regressionStudy("Linear Regression Forecast", "LRF", FieldForecast))
	register(LinearRegressionSlope, regressionStudy("Linear Regression Slope", "LRS", FieldSlope))
	register(LinearRegressionIntercept, regressionStudy("Linear Regression Intercept", "LRI", FieldIntercept))
	register(TimeSeriesForecast, sourceStudy("Time Series Forecast", "TSF", "TSF", true, indicator.TimeSeriesForecast))

	register(WeightedClose, priceStudy("Weighted Close", "WC", true, indicator.WeightedClose))
	register(TypicalPrice, priceStudy("Typical Price", "TP", true, indicator.TypicalPrice))
	register(MedianPrice, priceStudy("Median Price", "MP", true, indicator.MedianPrice))
	register(HighMinusLow, priceStudy("High Minus Low", "HML", false, indicator.HighMinusLow))

	vroc := sourceStudy("Volume Rate of Change", "Volume ROC", "VROC", false, indicator.VolumeROC)
	vroc.defaults[ParamSource] = core.SuffixVolume
	register(VolumeROC, vroc)
	register(PriceROC, sourceStudy("Price Rate of Change", "Price ROC", "PROC", false, indicator.PriceROC))

	register(StandardDeviation, &definition{
		name: "Standard Deviation", short: "Standard Deviation", alias: "SD",
		fields:   []string{FieldIndicator},
		defaults: Params{ParamSource: core.SuffixClose, ParamPeriods: 14, ParamStdDevs: 2, ParamMAType: indicator.SMA},
		compute: func(in *input) output {
			p, sd, ma := in.periods(), in.params.Float(ParamStdDevs), in.maType()
			return output{
				rs:    indicator.StandardDeviation(in.source(), p, sd, ma, FieldIndicator),
				title: []any{in.sourceName(), p, sd, ma},
			}
		},
	})

	for id, def := range map[ID]*definition{
		HHV: {name: "Highest High Value", short: "Highest High Value", alias: "HHV"},
		LLV: {name: "Lowest Low Value", short: "Lowest Low Value", alias: "LLV"},
	} {
		fn, channel := indicator.HHV, core.SuffixHigh
		if id == LLV {
			fn, channel = indicator.LLV, core.SuffixLow
		}
		def.overlay = true
		def.fields = []string{FieldIndicator}
		def.defaults = Params{ParamPeriods: 14}
		def.compute = func(in *input) output {
			p := in.periods()
			return output{rs: fn(in.channel(channel), p, FieldIndicator), title: []any{p}}
		}
		register(id, def)
	}

	register(VolumeWeightedAveragePrice, &definition{
		name: "Volume Weighted Average Price", short: "VWAP", alias: "VWAP", overlay: true,
		fields: []string{FieldIndicator},
		start:  fixedStart(1),
		compute: func(in *input) output {
			ohlcv := in.ohlcv()
			tp := indicator.TypicalPrice(ohlcv, "TP").Field("TP")
			rs := indicator.VWAP(tp, ohlcv.Field(indicator.FieldVolume), in.channel(core.SuffixDate), FieldIndicator)
			return output{rs: rs}
		},
	})
	register(PivotPoints, &definition{
		name: "Pivot Points", short: "Pivot Points", alias: "PP", overlay: true,
		fields: []string{
			FieldPivot, indicator.FieldS1, indicator.FieldR1, indicator.FieldS2, indicator.FieldR2, indicator.FieldS3, indicator.FieldR3,
		},
		defaults: Params{ParamDuration: string(indicator.PivotAuto)},
		start:    fixedStart(1),
		compute: func(in *input) output {
			duration := indicator.PivotDuration(in.params.String(ParamDuration))
			rs, err := indicator.PivotPoints(in.ohlcv(), in.channel(core.SuffixDate), duration, in.chartInterval())
			if err != nil && in.err == nil {
				in.err = err
			}
			return output{rs: rs, title: []any{string(duration)}}
		},
	})

	register(Volume, &definition{
		name: "Volume", short: "Volume", alias: "VO",
		fields: []string{FieldVolume},
		start:  fixedStart(1),
		compute: func(in *input) output {
			return output{rs: core.NewRecordset(in.channel(core.SuffixVolume))}
		},
	})
	register(ColoredVolume, &definition{
		name: "Colored Volume", short: "Colored Volume", alias: "CVO",
		fields: []string{FieldVolume, FieldVolumeUp},
		start:  fixedStart(1),
		compute: func(in *input) output {
			volume := in.channel(core.SuffixVolume)
			open, close := in.channel(core.SuffixOpen), in.channel(core.SuffixClose)
			up := core.NewField(volume.RecordCount, FieldVolumeUp)
			for rec := 1; rec <= volume.RecordCount; rec++ {
				if close.Value(rec) >= open.Value(rec) {
					up.SetValue(rec, 1)
				}
			}
			return output{rs: core.NewRecordset(volume, up)}
		},
	})
}
