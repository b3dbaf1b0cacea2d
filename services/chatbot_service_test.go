package services

import (
	"context"
	"strings"
	"testing"

	"github.com/HTW-PMA/Kantino-App-grp12/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testRules(t *testing.T) *IntentRules {
	t.Helper()
	rules, err := LoadIntentRules()
	require.NoError(t, err)
	return rules
}

func testMenus() *stubMenus {
	return &stubMenus{
		canteens: []models.Canteen{{ID: "m1", Name: "Mensa HTW Wilhelminenhof"}},
		menus: map[string][]models.Meal{
			"m1": {
				{
					ID: "1", Name: "Seelachsfilet mit Kartoffeln", Category: "Essen",
					Prices:    testPrices("Studierende", 3.15),
					Allergens: []string{"Fisch"},
				},
				{
					ID: "2", Name: "Gemüse-Curry", Category: "Essen",
					Badges: []models.Badge{{Name: "Vegan"}},
					Prices: testPrices("Studierende", 2.95),
				},
				{
					ID: "3", Name: "Käsespätzle", Category: "Essen",
					Prices:    testPrices("Studierende", 3.45),
					Allergens: []string{"Milch", "Gluten"},
				},
				{
					ID: "4", Name: "Pommes", Category: "Beilagen",
					Prices: testPrices("Studierende", 1.50),
				},
			},
		},
	}
}

func newChatbotForTest(t *testing.T, menus MenuProvider, net Connectivity, ai AIClient) *ChatbotService {
	t.Helper()
	svc := NewChatbotService(testRules(t), menus, net, ai, zap.NewNop())
	svc.today = func() string { return "2026-08-28" }
	return svc
}

func profileWithMensa(prefs ...string) models.UserProfile {
	return models.UserProfile{Name: "Alex", SelectedMensa: "m1", Preferences: prefs}
}

func TestReplyStructuredQueryStaysLocal(t *testing.T) {
	ai := &stubAI{answer: "never"}
	svc := newChatbotForTest(t, testMenus(), &stubNet{online: true}, ai)

	resp := svc.Reply(context.Background(), profileWithMensa(), "Was gibt es heute mit Fisch?")
	assert.True(t, resp.IsLocal)
	assert.Zero(t, ai.calls, "data-backed questions must not reach the AI")
	assert.Contains(t, resp.Response, "Seelachsfilet")
	assert.NotContains(t, resp.Response, "Gemüse-Curry")
}

func TestReplyOfflineStaysLocal(t *testing.T) {
	ai := &stubAI{answer: "never"}
	svc := newChatbotForTest(t, testMenus(), &stubNet{online: false}, ai)

	resp := svc.Reply(context.Background(), profileWithMensa(), "Erzähl mir etwas über Berliner Mensen")
	assert.True(t, resp.IsLocal)
	assert.Zero(t, ai.calls)
}

func TestReplyFreeFormUsesAI(t *testing.T) {
	ai := &stubAI{answer: "Die Mensa hat eine lange Geschichte."}
	svc := newChatbotForTest(t, testMenus(), &stubNet{online: true}, ai)

	resp := svc.Reply(context.Background(), profileWithMensa(), "Erzähl mir etwas über Berliner Mensen")
	assert.False(t, resp.IsLocal)
	assert.Equal(t, 1, ai.calls)
	assert.Equal(t, "Die Mensa hat eine lange Geschichte.", resp.Response)
}

func TestReplyAIFailureFallsBackWithNotice(t *testing.T) {
	ai := &stubAI{err: errBoom}
	svc := newChatbotForTest(t, testMenus(), &stubNet{online: true}, ai)

	resp := svc.Reply(context.Background(), profileWithMensa(), "Erzähl mir etwas über Berliner Mensen")
	assert.True(t, resp.IsLocal)
	assert.Contains(t, resp.Response, "(AI temporär nicht verfügbar)")
	assert.NotEmpty(t, resp.Error)
}

func TestReplyWithoutAIClientStaysLocal(t *testing.T) {
	svc := newChatbotForTest(t, testMenus(), &stubNet{online: true}, nil)

	resp := svc.Reply(context.Background(), profileWithMensa(), "Erzähl mir etwas über Berliner Mensen")
	assert.True(t, resp.IsLocal)
	assert.NotEmpty(t, resp.Response)
}

func TestRecommendationHonorsVeganPreference(t *testing.T) {
	svc := newChatbotForTest(t, testMenus(), &stubNet{online: false}, nil)

	answer := svc.LocalAnswer(context.Background(), profileWithMensa("vegan"), "Was kann ich heute essen?")
	assert.Contains(t, answer, "Gemüse-Curry")
	assert.NotContains(t, answer, "Seelachsfilet")
	assert.NotContains(t, answer, "Käsespätzle")
}

func TestRecommendationExcludesSides(t *testing.T) {
	svc := newChatbotForTest(t, testMenus(), &stubNet{online: false}, nil)

	answer := svc.LocalAnswer(context.Background(), profileWithMensa(), "Was kann ich heute essen?")
	assert.NotContains(t, answer, "Pommes", "sides are not recommendations")
}

func TestLactoseFreeExcludesDairyMeals(t *testing.T) {
	svc := newChatbotForTest(t, testMenus(), &stubNet{online: false}, nil)

	answer := svc.LocalAnswer(context.Background(), profileWithMensa(), "Was ist heute laktosefrei?")
	assert.NotContains(t, answer, "Käsespätzle")
	assert.Contains(t, answer, "Gemüse-Curry")
	assert.Contains(t, answer, "Personal", "allergy answers point to the staff")
}

func TestBudgetListsOnlyCheapMeals(t *testing.T) {
	menus := testMenus()
	menus.menus["m1"] = append(menus.menus["m1"], models.Meal{
		ID: "5", Name: "Rumpsteak", Category: "Essen",
		Prices: testPrices("Studierende", 7.90),
	})
	svc := newChatbotForTest(t, menus, &stubNet{online: false}, nil)

	answer := svc.LocalAnswer(context.Background(), profileWithMensa(), "Was ist heute günstig?")
	assert.Contains(t, answer, "Gemüse-Curry")
	assert.NotContains(t, answer, "Rumpsteak")
}

func TestNoSelectedMensaPrompt(t *testing.T) {
	svc := newChatbotForTest(t, testMenus(), &stubNet{online: false}, nil)

	answer := svc.LocalAnswer(context.Background(), models.UserProfile{}, "Was kann ich heute essen?")
	assert.Contains(t, answer, "wähle zuerst eine Mensa")
}

func TestStaleMenuDataExplained(t *testing.T) {
	menus := testMenus()
	menus.menuErr = map[string]error{"m1": ErrStaleData}
	svc := newChatbotForTest(t, menus, &stubNet{online: false}, nil)

	answer := svc.LocalAnswer(context.Background(), profileWithMensa(), "Was kann ich heute essen?")
	assert.Contains(t, answer, "zu alt")
}

func TestHelpListsCapabilities(t *testing.T) {
	svc := newChatbotForTest(t, testMenus(), &stubNet{online: false}, nil)

	answer := svc.LocalAnswer(context.Background(), profileWithMensa(), "Hilfe")
	assert.Contains(t, answer, "Was kann ich heute essen?")
}

func TestUnknownMessageFallsBack(t *testing.T) {
	svc := newChatbotForTest(t, testMenus(), &stubNet{online: false}, nil)

	answer := svc.LocalAnswer(context.Background(), profileWithMensa(), "xyzzy")
	assert.Contains(t, answer, "nicht verstanden")
}

func TestFormatPriceGermanStyle(t *testing.T) {
	assert.Equal(t, "2,95 €", FormatPrice(2.95))
}

func TestBuildContextUnknownMensaIsNoFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	svc := NewChatbotService(testRules(t), testMenus(), &stubNet{online: true}, nil, zap.New(core))
	svc.today = func() string { return "2026-08-28" }

	block := svc.buildContext(context.Background(), models.UserProfile{Name: "Alex", SelectedMensa: "ghost"})
	assert.NotContains(t, block, "AKTUELLE MENSA")
	assert.Zero(t, logs.FilterMessage("context canteen lookup failed").Len(),
		"an unknown id must not be logged as a lookup failure")
}

func TestBuildContextLookupErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	menus := testMenus()
	menus.canteenErr = errBoom
	svc := NewChatbotService(testRules(t), menus, &stubNet{online: true}, nil, zap.New(core))
	svc.today = func() string { return "2026-08-28" }

	svc.buildContext(context.Background(), profileWithMensa())
	assert.Equal(t, 1, logs.FilterMessage("context canteen lookup failed").Len())
}

func TestBuildContextContainsMenuAndProfile(t *testing.T) {
	svc := newChatbotForTest(t, testMenus(), &stubNet{online: true}, nil)

	block := svc.buildContext(context.Background(), profileWithMensa("vegan"))
	assert.Contains(t, block, "USER: Alex")
	assert.Contains(t, block, "USER-PRÄFERENZEN: vegan")
	assert.Contains(t, block, "Mensa HTW Wilhelminenhof")
	assert.Contains(t, block, "Seelachsfilet")
	assert.Contains(t, block, "3,15 €")
}

// testPrices builds a single-entry price list, keeping fixtures short.
func testPrices(priceType string, price float64) []models.Price {
	return []models.Price{{PriceType: priceType, Price: price}}
}

func TestIsStructuredClassification(t *testing.T) {
	rules := testRules(t)
	structured := []string{
		"Was kann ich heute essen?",
		"Gibt es heute Pasta?",
		"Was ist glutenfrei?",
		"Öffnungszeiten bitte",
	}
	for _, msg := range structured {
		assert.True(t, rules.IsStructured(msg), msg)
	}
	free := []string{
		"Erzähl mir etwas über Berliner Mensen",
		"Wie gesund ist Mensaessen im Durchschnitt?",
	}
	for _, msg := range free {
		assert.False(t, rules.IsStructured(msg), msg)
	}
}

func TestIngredientSynonymExpansion(t *testing.T) {
	rules := testRules(t)
	terms := rules.IngredientTerms("gibt es heute huhn?")
	assert.Contains(t, terms, "hähnchen")
	assert.Contains(t, terms, "chicken")
}

func TestAllergenForVariants(t *testing.T) {
	rules := testRules(t)
	for _, msg := range []string{"was ist laktosefrei", "frei von laktose bitte"} {
		allergen, ok := rules.AllergenFor(strings.ToLower(msg))
		require.True(t, ok, msg)
		assert.Equal(t, "laktose", allergen)
	}
}
