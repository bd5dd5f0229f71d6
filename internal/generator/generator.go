package generator

import (
	"context"
	"encoding/hex"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vanshika/fraudscore/internal/domain"
)

// Dataset contains the generated transactions in time order.
type Dataset struct {
	Transactions []domain.RawTransaction `json:"transactions"`
}

// Generator produces synthetic card transaction history.
type Generator struct {
	cfg           Config
	rand          *rand.Rand
	nameFragments nameFragments
}

type card struct {
	number    int64
	first     string
	last      string
	favorites []domain.Category
	lastSeen  time.Time
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.NumCards <= 0 {
		cfg.NumCards = def.NumCards
	}
	if cfg.NumMerchants <= 0 {
		cfg.NumMerchants = def.NumMerchants
	}
	if cfg.NumTransactions <= 0 {
		cfg.NumTransactions = def.NumTransactions
	}
	if cfg.Start.IsZero() {
		cfg.Start = def.Start
	}
	if cfg.Span <= 0 {
		cfg.Span = def.Span
	}
	if cfg.BurstChance < 0 || cfg.BurstChance > 1 {
		cfg.BurstChance = def.BurstChance
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:           cfg,
		rand:          rand.New(rand.NewSource(cfg.Seed)),
		nameFragments: defaultNameFragments(),
	}
}

// Generate synthesises transactions. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	cards := make([]*card, g.cfg.NumCards)
	for i := range cards {
		cards[i] = &card{
			number:    4000000000000000 + g.rand.Int63n(1_000_000_000_000_000),
			first:     g.pick(g.nameFragments.first),
			last:      g.pick(g.nameFragments.last),
			favorites: g.favoriteCategories(),
		}
	}

	merchants := make([]string, g.cfg.NumMerchants)
	for i := range merchants {
		merchants[i] = g.randomMerchant()
	}

	spanSeconds := int64(g.cfg.Span / time.Second)
	txs := make([]domain.RawTransaction, g.cfg.NumTransactions)
	for i := range txs {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}

		c := cards[g.rand.Intn(len(cards))]
		at := g.cfg.Start.Add(time.Duration(g.rand.Int63n(spanSeconds)) * time.Second)
		if !c.lastSeen.IsZero() && g.rand.Float64() < g.cfg.BurstChance {
			at = c.lastSeen.Add(time.Duration(1+g.rand.Intn(50*60)) * time.Second)
		}
		c.lastSeen = at

		category := c.favorites[g.rand.Intn(len(c.favorites))]
		if g.rand.Float64() < 0.2 {
			category = domain.Categories[g.rand.Intn(len(domain.Categories))]
		}

		txs[i] = domain.RawTransaction{
			Time:       at.Format(domain.TimeLayout),
			CardNumber: c.number,
			Merchant:   merchants[g.rand.Intn(len(merchants))],
			Category:   string(category),
			FirstName:  c.first,
			LastName:   c.last,
			Amount:     g.randomAmount(category),
			TransNum:   g.randomTransNum(),
		}
	}

	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Time < txs[j].Time })
	return Dataset{Transactions: txs}, nil
}

func (g *Generator) pick(values []string) string {
	return values[g.rand.Intn(len(values))]
}

func (g *Generator) favoriteCategories() []domain.Category {
	n := 2 + g.rand.Intn(3)
	out := make([]domain.Category, n)
	for i := range out {
		out[i] = domain.Categories[g.rand.Intn(len(domain.Categories))]
	}
	return out
}

func (g *Generator) randomMerchant() string {
	return fmt.Sprintf("fraud_%s-%s", g.pick(g.nameFragments.merchantStems), g.pick(g.nameFragments.last))
}

// randomAmount draws a log-normal amount in cents; travel and online shopping skew higher.
func (g *Generator) randomAmount(category domain.Category) decimal.Decimal {
	median := 45.0
	switch category {
	case domain.CategoryTravel, domain.CategoryShoppingNet, domain.CategoryMiscNet:
		median = 120
	case domain.CategoryGasTransport, domain.CategoryFoodDining:
		median = 25
	}
	cents := int64(median * 100 * math.Exp(g.rand.NormFloat64()*0.8))
	if cents < 1 {
		cents = 1
	}
	return decimal.New(cents, -2)
}

func (g *Generator) randomTransNum() string {
	buf := make([]byte, 16)
	for i := range buf {
		buf[i] = byte(g.rand.Intn(256))
	}
	return hex.EncodeToString(buf)
}

type nameFragments struct {
	first         []string
	last          []string
	merchantStems []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		first:         []string{"Jeff", "Joanne", "Ashley", "Brian", "Nathan", "Danielle", "Kayla", "Paula", "David", "Ann", "Mary", "Tyler", "Grace", "Omar", "Priya"},
		last:          []string{"Elliott", "Williams", "Lopez", "Wilson", "Massey", "Evans", "Sutton", "Estrada", "Rogers", "Lee", "Patel", "Garcia", "Nguyen", "Kim"},
		merchantStems: []string{"Kirlin", "Sporer", "Swaniawski", "Haley", "Johnston", "Daugherty", "Romaguera", "Reichel", "Abbott", "Kuhn", "Lind", "Bashirian"},
	}
}
