package types

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/silverfox-lab/silverfox/pkg/errors"
)

type Side string

type OrderStatus string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusFilled    OrderStatus = "FILLED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusRejected  OrderStatus = "REJECTED"
)

// ExecuteOrder is a request handed to the broker gateway. Submission is
// fire-and-forget: the gateway acknowledges asynchronously and fills arrive
// on the callback channel.
type ExecuteOrder struct {
	ID     string `yaml:"id" json:"id" validate:"required,uuid"`
	Symbol string `yaml:"symbol" json:"symbol" validate:"required"`
	Side   Side   `yaml:"side" json:"side" validate:"required,oneof=BUY SELL"`
	Price  float64 `yaml:"price" json:"price" validate:"required,gt=0"`
	// Quantity is in shares; buys are whole lots of 100
	Quantity int `yaml:"quantity" json:"quantity" validate:"required,gt=0"`
	// Remark names the rule or selection that produced the order
	Remark string `yaml:"remark" json:"remark" validate:"required"`
	// PriceBuffer is the fraction added to (buy) or taken from (sell) the
	// limit price so the order actually crosses the book
	PriceBuffer float64 `yaml:"price_buffer" json:"price_buffer" validate:"gte=0"`
	// StrategyTag identifies the deployment that submitted the order
	StrategyTag string `yaml:"strategy_tag" json:"strategy_tag" validate:"required"`
}

// Validate validates the ExecuteOrder struct.
func (o *ExecuteOrder) Validate() error {
	validate := validator.New()

	if err := validate.Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, "invalid execute order", err)
	}

	return nil
}

// Fill is an asynchronous trade confirmation from the broker.
type Fill struct {
	OrderID  string    `json:"order_id" yaml:"order_id"`
	Symbol   string    `json:"symbol" yaml:"symbol"`
	Side     Side      `json:"side" yaml:"side"`
	Price    float64   `json:"price" yaml:"price"`
	Quantity int       `json:"quantity" yaml:"quantity"`
	Time     time.Time `json:"time" yaml:"time"`
}

// OrderFailure is an asynchronous rejection or error report from the broker.
// Purely observational: logged and surfaced to the operator, never retried.
type OrderFailure struct {
	OrderID string `json:"order_id" yaml:"order_id"`
	Symbol  string `json:"symbol" yaml:"symbol"`
	Code    int    `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}
