// Package config holds every externally tunable parameter of the strategy.
// Defaults reproduce the Silver Fox No.2 production deployment; any value can
// be overridden from a YAML file. Invalid configuration is fatal at startup.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/silverfox-lab/silverfox/pkg/errors"
)

// Tier is one band of a tiered pullback table: the band is matched against
// max-price-since-entry relative to cost, the threshold drives the sell test.
type Tier struct {
	// GainLow is the inclusive lower bound of the gain band, as a multiplier of cost
	GainLow float64 `yaml:"gain_low" json:"gain_low" validate:"gt=0"`
	// GainHigh is the exclusive upper bound of the gain band
	GainHigh float64 `yaml:"gain_high" json:"gain_high" validate:"gtfield=GainLow"`
	// Threshold is the pullback fraction for the band
	Threshold float64 `yaml:"threshold" json:"threshold" validate:"gt=0,lt=1"`
}

// Sizing controls position sizing and order submission.
type Sizing struct {
	// HoldDays is the minimum holding period before the switch rule may rotate
	HoldDays int `yaml:"hold_days" json:"hold_days" validate:"gt=0"`
	// MaxCount is the maximum number of concurrent positions
	MaxCount int `yaml:"max_count" json:"max_count" validate:"gt=0"`
	// AmountEach is the capital budget per position
	AmountEach float64 `yaml:"amount_each" json:"amount_each" validate:"gt=0"`
	// OrderPremium is the price buffer fraction making limit orders cross the book
	OrderPremium float64 `yaml:"order_premium" json:"order_premium" validate:"gte=0"`
	// UpperBuyCount caps new buy orders submitted within one decision cycle
	UpperBuyCount int `yaml:"upper_buy_count" json:"upper_buy_count" validate:"gt=0"`
}

// Buy holds the buy-side predicate parameters.
type Buy struct {
	// HMAShort, HMAMid, HMALong are the three Hull moving average periods
	HMAShort int `yaml:"hma_short" json:"hma_short" validate:"gt=0"`
	HMAMid   int `yaml:"hma_mid" json:"hma_mid" validate:"gt=0"`
	HMALong  int `yaml:"hma_long" json:"hma_long" validate:"gt=0"`
	// IncLimit rejects names already up too much versus the previous close
	IncLimit float64 `yaml:"inc_limit" json:"inc_limit" validate:"gt=1"`
	// MinPrice is the cheapest buyable price
	MinPrice float64 `yaml:"min_price" json:"min_price" validate:"gt=0"`
	// DayCount is the trailing window length; must cover HMALong plus WMA slack
	DayCount int `yaml:"day_count" json:"day_count" validate:"gt=0"`
	// MarketCapCeiling blacklists symbols whose float value exceeds it
	MarketCapCeiling float64 `yaml:"market_cap_ceiling" json:"market_cap_ceiling" validate:"gt=0"`
	// TargetPrefixes whitelists symbol prefixes (main boards only by default)
	TargetPrefixes []string `yaml:"target_prefixes" json:"target_prefixes" validate:"min=1"`
}

// Sell holds every sell-rule parameter, grouped by rule.
type Sell struct {
	// Hard stop/take
	EarnLimit float64 `yaml:"earn_limit" json:"earn_limit" validate:"gt=1"`
	RiskLimit float64 `yaml:"risk_limit" json:"risk_limit" validate:"gt=0,lt=1"`
	RiskTight float64 `yaml:"risk_tight" json:"risk_tight" validate:"gte=0"`

	// Switch
	SwitchBegin         string  `yaml:"switch_begin" json:"switch_begin" validate:"required"`
	SwitchDemandDailyUp float64 `yaml:"switch_demand_daily_up" json:"switch_demand_daily_up" validate:"gt=0"`

	// Fall-from-top and return-of-profit tier tables
	FallFromTop    []Tier `yaml:"fall_from_top" json:"fall_from_top" validate:"min=1,dive"`
	ReturnOfProfit []Tier `yaml:"return_of_profit" json:"return_of_profit" validate:"min=1,dive"`

	// Tail-cap
	TailCapBegin string `yaml:"tail_cap_begin" json:"tail_cap_begin" validate:"required"`

	// Open-day break
	OpenLowRate float64 `yaml:"open_low_rate" json:"open_low_rate" validate:"gt=0"`
	OpenVolRate float64 `yaml:"open_vol_rate" json:"open_vol_rate" validate:"gt=0"`
	TailVolTime string  `yaml:"tail_vol_time" json:"tail_vol_time" validate:"required"`

	// Moving-average break
	MAAbove int `yaml:"ma_above" json:"ma_above" validate:"gt=0"`

	// CCI reversal
	CCIPeriod int     `yaml:"cci_period" json:"cci_period" validate:"gt=0"`
	CCIUpper  float64 `yaml:"cci_upper" json:"cci_upper"`
	CCILower  float64 `yaml:"cci_lower" json:"cci_lower"`

	// Volume-drop take-profit
	VolDecThreshold float64 `yaml:"vol_dec_threshold" json:"vol_dec_threshold" validate:"gt=0,lt=1"`
	VolDecMinute    string  `yaml:"vol_dec_minute" json:"vol_dec_minute" validate:"required"`
	VolDecLimit     float64 `yaml:"vol_dec_limit" json:"vol_dec_limit" validate:"gt=1"`

	// ATR stop/take
	ATRThreshold  float64 `yaml:"atr_threshold" json:"atr_threshold" validate:"gt=1"`
	ATRTimePeriod int     `yaml:"atr_time_period" json:"atr_time_period" validate:"gt=0"`
	ATRMaxHRatio  float64 `yaml:"atr_max_h_ratio" json:"atr_max_h_ratio" validate:"gt=0"`
	ATRMaxLRatio  float64 `yaml:"atr_max_l_ratio" json:"atr_max_l_ratio" validate:"gt=0"`
	ATRMaxDrop    float64 `yaml:"atr_max_drop" json:"atr_max_drop" validate:"gte=0"`
	ATRMinRatio   float64 `yaml:"atr_min_ratio" json:"atr_min_ratio" validate:"gt=0"`
	SMATimePeriod int     `yaml:"sma_time_period" json:"sma_time_period" validate:"gt=0"`

	// RuleOrder is the priority-ordered rule chain; first match wins
	RuleOrder []string `yaml:"rule_order" json:"rule_order" validate:"min=1"`
}

// Session holds the trading-day windows (exchange local time, HH:MM).
type Session struct {
	MorningOpen    string `yaml:"morning_open" json:"morning_open" validate:"required"`
	MorningClose   string `yaml:"morning_close" json:"morning_close" validate:"required"`
	AfternoonOpen  string `yaml:"afternoon_open" json:"afternoon_open" validate:"required"`
	AfternoonClose string `yaml:"afternoon_close" json:"afternoon_close" validate:"required"`
	// BuyBegin delays buying past the opening auction noise
	BuyBegin string `yaml:"buy_begin" json:"buy_begin" validate:"required"`

	// Daily job times
	BumpHeldAt      string `yaml:"bump_held_at" json:"bump_held_at" validate:"required"`
	BlacklistAt     string `yaml:"blacklist_at" json:"blacklist_at" validate:"required"`
	IndicatorsAt    string `yaml:"indicators_at" json:"indicators_at" validate:"required"`
	SubscribeAt     string `yaml:"subscribe_at" json:"subscribe_at" validate:"required"`
	UnsubscribeAt   string `yaml:"unsubscribe_at" json:"unsubscribe_at" validate:"required"`
	ResubscribeUpTo string `yaml:"resubscribe_up_to" json:"resubscribe_up_to" validate:"required"`
}

// Config is the root configuration.
type Config struct {
	StrategyName string  `yaml:"strategy_name" json:"strategy_name" validate:"required"`
	Sizing       Sizing  `yaml:"sizing" json:"sizing"`
	Buy          Buy     `yaml:"buy" json:"buy"`
	Sell         Sell    `yaml:"sell" json:"sell"`
	Session      Session `yaml:"session" json:"session"`
}

// Default returns the production parameter set.
func Default() *Config {
	return &Config{
		StrategyName: "silverfox-2",
		Sizing: Sizing{
			HoldDays:      3,
			MaxCount:      10,
			AmountEach:    10000,
			OrderPremium:  0.08,
			UpperBuyCount: 3,
		},
		Buy: Buy{
			HMAShort:         20,
			HMAMid:           40,
			HMALong:          60,
			IncLimit:         1.02,
			MinPrice:         2.00,
			DayCount:         69,
			MarketCapCeiling: 3_000_000_000,
			TargetPrefixes: []string{
				"000", "001", "002", "003",
				"600", "601", "603", "605",
			},
		},
		Sell: Sell{
			EarnLimit:           1.45,
			RiskLimit:           0.97,
			RiskTight:           0.005,
			SwitchBegin:         "09:45",
			SwitchDemandDailyUp: 0.005,
			FallFromTop: []Tier{
				{GainLow: 1.02, GainHigh: 1.05, Threshold: 0.02},
				{GainLow: 1.05, GainHigh: 1.10, Threshold: 0.05},
				{GainLow: 1.10, GainHigh: 9.99, Threshold: 0.08},
			},
			ReturnOfProfit: []Tier{
				{GainLow: 1.01, GainHigh: 1.07, Threshold: 0.80},
				{GainLow: 1.07, GainHigh: 9.99, Threshold: 0.50},
			},
			TailCapBegin:    "14:30",
			OpenLowRate:     0.99,
			OpenVolRate:     0.60,
			TailVolTime:     "14:45",
			MAAbove:         5,
			CCIPeriod:       14,
			CCIUpper:        330.0,
			CCILower:        10.0,
			VolDecThreshold: 0.08,
			VolDecMinute:    "14:45",
			VolDecLimit:     1.05,
			ATRThreshold:    1.05,
			ATRTimePeriod:   3,
			ATRMaxHRatio:    1.36,
			ATRMaxLRatio:    1.03,
			ATRMaxDrop:      0.01,
			ATRMinRatio:     0.85,
			SMATimePeriod:   3,
			RuleOrder: []string{
				"hard", "switch", "fall", "return", "atr",
				"tailcap", "openday", "mabreak", "cci", "volumedrop",
			},
		},
		Session: Session{
			MorningOpen:     "09:30",
			MorningClose:    "11:30",
			AfternoonOpen:   "13:00",
			AfternoonClose:  "14:56",
			BuyBegin:        "09:32",
			BumpHeldAt:      "09:10",
			BlacklistAt:     "09:11",
			IndicatorsAt:    "09:15",
			SubscribeAt:     "09:25",
			UnsubscribeAt:   "15:00",
			ResubscribeUpTo: "14:57",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to read config file", err)
		}

		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config file", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every parameter. Called once at startup; failures abort
// before the decision loop starts.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	if c.Buy.DayCount < c.Buy.HMALong+isqrt(c.Buy.HMALong) {
		return errors.Newf(errors.ErrCodeInvalidPeriod,
			"day_count %d too short for hma_long %d", c.Buy.DayCount, c.Buy.HMALong)
	}

	if c.Session.MorningOpen >= c.Session.MorningClose ||
		c.Session.AfternoonOpen >= c.Session.AfternoonClose ||
		c.Session.MorningClose >= c.Session.AfternoonOpen {
		return errors.New(errors.ErrCodeInvalidSessionWindow, "session windows out of order")
	}

	return nil
}

// isqrt is the integer square root used by the HMA smoothing period.
func isqrt(n int) int {
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}

	return r
}
