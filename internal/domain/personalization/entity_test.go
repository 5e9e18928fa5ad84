package personalization

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commstack/letterlens/internal/domain/customers"
)

func TestBuildPlan_TraditionalSenior(t *testing.T) {
	cust := &customers.Customer{Name: "Mrs Smith", Age: 67}
	p := BuildPlan(cust)

	assert.Equal(t, "respectful and clear", p.Tone)
	assert.Equal(t, "phone and branch", p.ChannelEmphasis)
	assert.Equal(t, "avoid technical jargon", p.TechnicalLevel)
	assert.Equal(t, DepthSurface, p.Depth)
	assert.Empty(t, p.MustMention)
}

func TestBuildPlan_DigitalFirstYoungCustomer(t *testing.T) {
	cust := &customers.Customer{Name: "Jake", Age: 24, DigitalLoginsPerMonth: 45}
	p := BuildPlan(cust)

	assert.Equal(t, "casual and friendly", p.Tone)
	assert.Equal(t, "app and online banking", p.ChannelEmphasis)
}

func TestBuildPlan_DepthScalesWithOpportunities(t *testing.T) {
	cust := &customers.Customer{
		Name:                  "Mrs Smith",
		Age:                   67,
		YearsWithBank:         22,                 // opportunity 1
		RecentLifeEvents:      "Recently widowed", // opportunity 2
		RequiresSupport:       true,               // opportunity 3
		DigitalLoginsPerMonth: 2,                  // not traditional: opportunity 4
	}
	p := BuildPlan(cust)

	assert.Equal(t, DepthHyper, p.Depth)
	assert.Contains(t, p.MustMention, "acknowledge long-standing relationship")
	assert.Contains(t, p.MustMention, "acknowledge recent life event: Recently widowed")
	assert.NotEmpty(t, p.Notes)
}

func TestBuildPlan_NoneLifeEventIgnored(t *testing.T) {
	cust := &customers.Customer{Age: 40, RecentLifeEvents: "None"}
	p := BuildPlan(cust)
	assert.Empty(t, p.MustMention)
}

func TestBuildPlan_Story(t *testing.T) {
	cust := &customers.Customer{Name: "Jake", Age: 24, DigitalLoginsPerMonth: 45, AccountBalance: 850}
	p := BuildPlan(cust)

	assert.Equal(t, "Jake is a young adult, digital-first customer with a everyday banking profile", p.Story)
}

func TestBundle_Channels(t *testing.T) {
	b := &Bundle{Email: "e", SMS: "s", App: "a", Letter: "l"}
	m := b.Channels()

	assert.Equal(t, "e", m["email"])
	assert.Equal(t, "s", m["sms"])
	assert.Equal(t, "a", m["app"])
	assert.Equal(t, "l", m["letter"])
}
