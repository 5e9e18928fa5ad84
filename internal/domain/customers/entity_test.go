package customers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Valued Customer", (&Customer{}).DisplayName())
	assert.Equal(t, "Valued Customer", (*Customer)(nil).DisplayName())
	assert.Equal(t, "Mrs Smith", (&Customer{Name: "Mrs Smith"}).DisplayName())
}

func TestLifeStage(t *testing.T) {
	cases := []struct {
		age  int
		want string
	}{
		{22, "young adult"},
		{30, "early career"},
		{40, "established professional"},
		{50, "mid-career"},
		{60, "pre-retirement"},
		{70, "retirement age"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, (&Customer{Age: tc.age}).LifeStage())
	}
}

func TestFinancialContext(t *testing.T) {
	assert.Equal(t, "budget-conscious", (&Customer{AccountBalance: 100}).FinancialContext())
	assert.Equal(t, "everyday banking", (&Customer{AccountBalance: 1500}).FinancialContext())
	assert.Equal(t, "building savings", (&Customer{AccountBalance: 5000}).FinancialContext())
	assert.Equal(t, "established saver", (&Customer{AccountBalance: 20000}).FinancialContext())
	assert.Equal(t, "wealth management focus", (&Customer{AccountBalance: 100000}).FinancialContext())
}

func TestDigitalProfile(t *testing.T) {
	assert.Equal(t, "digital-first", (&Customer{DigitalLoginsPerMonth: 25}).DigitalProfile())
	assert.Equal(t, "digital-first", (&Customer{MobileAppUsage: "Daily"}).DigitalProfile())
	assert.Equal(t, "digitally-engaged", (&Customer{DigitalLoginsPerMonth: 15}).DigitalProfile())
	assert.Equal(t, "hybrid-user", (&Customer{DigitalLoginsPerMonth: 7}).DigitalProfile())
	assert.Equal(t, "occasional-digital", (&Customer{DigitalLoginsPerMonth: 2}).DigitalProfile())
	assert.Equal(t, "traditional-preferred", (&Customer{}).DigitalProfile())
}

func TestFormality(t *testing.T) {
	assert.Equal(t, "casual and friendly", (&Customer{Age: 25}).Formality())
	assert.Equal(t, "professional", (&Customer{Age: 45}).Formality())
	assert.Equal(t, "respectful and clear", (&Customer{Age: 70}).Formality())
	assert.Equal(t, "professional", (&Customer{}).Formality())
}

func TestContext_DotPathShape(t *testing.T) {
	c := &Customer{Name: "Alice", Age: 30, AccountBalance: 5000}
	ctx := c.Context()

	inner, ok := ctx["customer"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "Alice", inner["name"])
	assert.Equal(t, 30, inner["age"])
	assert.Equal(t, "early career", inner["life_stage"])
	assert.Equal(t, "building savings", inner["financial_context"])
}
