package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/silverfox-lab/silverfox/pkg/errors"
)

type OrderTestSuite struct {
	suite.Suite
}

func TestOrderSuite(t *testing.T) {
	suite.Run(t, new(OrderTestSuite))
}

func (suite *OrderTestSuite) validOrder() ExecuteOrder {
	return ExecuteOrder{
		ID:          uuid.New().String(),
		Symbol:      "000001",
		Side:        SideBuy,
		Price:       10.30,
		Quantity:    900,
		Remark:      "selection buy",
		PriceBuffer: 0.08,
		StrategyTag: "silverfox-2",
	}
}

func (suite *OrderTestSuite) TestValidOrder() {
	order := suite.validOrder()
	suite.NoError(order.Validate())
}

func (suite *OrderTestSuite) TestMissingID() {
	order := suite.validOrder()
	order.ID = ""

	err := order.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidOrder))
}

func (suite *OrderTestSuite) TestInvalidSide() {
	order := suite.validOrder()
	order.Side = "HOLD"
	suite.Error(order.Validate())
}

func (suite *OrderTestSuite) TestNonPositivePrice() {
	order := suite.validOrder()
	order.Price = 0
	suite.Error(order.Validate())
}

func (suite *OrderTestSuite) TestNonPositiveQuantity() {
	order := suite.validOrder()
	order.Quantity = 0
	suite.Error(order.Validate())
}
