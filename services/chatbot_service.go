package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/HTW-PMA/Kantino-App-grp12/models"

	"go.uber.org/zap"
)

// ChatResponse is one chatbot answer. IsLocal tells the client whether the
// structured local path or the AI produced it.
type ChatResponse struct {
	Response string `json:"response"`
	IsLocal  bool   `json:"isLocal"`
	Error    string `json:"error,omitempty"`
}

// AIClient answers free-form questions given an assembled context block.
// GeminiService implements it; the chatbot works without one (local-only).
type AIClient interface {
	Answer(ctx context.Context, message, contextBlock string, profile models.UserProfile) (string, error)
}

// ChatbotService routes each message: offline or structured queries go to
// the deterministic local path against cached menu data, everything else to
// the AI with a constructed context. The user always gets an answer.
type ChatbotService struct {
	rules *IntentRules
	menus MenuProvider
	net   Connectivity
	ai    AIClient
	log   *zap.Logger
	today func() string
}

func NewChatbotService(rules *IntentRules, menus MenuProvider, net Connectivity, ai AIClient, log *zap.Logger) *ChatbotService {
	return &ChatbotService{
		rules: rules,
		menus: menus,
		net:   net,
		ai:    ai,
		log:   log,
		today: func() string { return time.Now().Format("2006-01-02") },
	}
}

// Reply handles a single message. Structured queries have data-backed
// answers that must not be hallucinated, so they never reach the AI.
func (s *ChatbotService) Reply(ctx context.Context, profile models.UserProfile, message string) ChatResponse {
	if !s.net.Online(ctx) || s.rules.IsStructured(message) || s.ai == nil {
		return ChatResponse{Response: s.LocalAnswer(ctx, profile, message), IsLocal: true}
	}

	contextBlock := s.buildContext(ctx, profile)
	answer, err := s.ai.Answer(ctx, message, contextBlock, profile)
	if err != nil {
		s.log.Warn("AI answer failed, using local path", zap.Error(err))
		return ChatResponse{
			Response: s.LocalAnswer(ctx, profile, message) + "\n\n(AI temporär nicht verfügbar)",
			IsLocal:  true,
			Error:    err.Error(),
		}
	}
	return ChatResponse{Response: answer, IsLocal: false}
}

// LocalAnswer routes a message through the keyword precedence. First match
// wins; every handler converts its own failures into a friendly sentence.
func (s *ChatbotService) LocalAnswer(ctx context.Context, profile models.UserProfile, message string) string {
	lower := strings.ToLower(message)

	exclusion := s.isExclusionQuery(lower)

	if terms := s.rules.IngredientTerms(lower); len(terms) > 0 && !exclusion {
		return s.answerIngredientSearch(ctx, profile, terms)
	}
	if exclusion {
		return s.answerAllergenFree(ctx, profile, lower)
	}
	if containsAny(lower, "was kann ich heute essen", "was gibt es heute", "heutiges menü", "empfehlung", "empfiehl", "empfehle") {
		return s.answerRecommendation(ctx, profile)
	}
	if containsAny(lower, "meine vorlieben", "meine präferenzen", "meine einstellungen") {
		return s.answerPreferences(profile)
	}
	if strings.Contains(lower, "vegan") {
		return s.answerDietListing(ctx, profile, true)
	}
	if strings.Contains(lower, "vegetarisch") {
		return s.answerDietListing(ctx, profile, false)
	}
	if answer, ok := s.answerAdditiveLookup(ctx, lower); ok {
		return answer
	}
	if containsAny(lower, "nachhaltig", "fairtrade", "klimaessen") {
		return s.answerSustainability(ctx, profile)
	}
	if containsAny(lower, "günstig", "billig", "preiswert", "budget", "unter 4") {
		return s.answerBudget(ctx, profile)
	}
	if containsAny(lower, "meine mensa", "adresse", "kontakt", "wo ist") {
		return s.answerCanteenInfo(ctx, profile)
	}
	if containsAny(lower, "öffnungszeit", "geöffnet", "wann hat") {
		return s.answerOpeningHours(ctx, profile)
	}
	if containsAny(lower, "hilfe", "help", "was kannst du") {
		return s.helpText()
	}
	return s.fallbackText()
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func (s *ChatbotService) isExclusionQuery(lower string) bool {
	if strings.Contains(lower, "frei von") || strings.Contains(lower, "ohne ") {
		return true
	}
	for allergen := range s.rules.AllergenExclusions {
		if strings.Contains(lower, allergen+"frei") {
			return true
		}
	}
	return strings.Contains(lower, "allergenfrei")
}

// todayMeals loads today's menu of the selected canteen. The second return
// value is a ready-to-send explanation when the lookup cannot answer.
func (s *ChatbotService) todayMeals(ctx context.Context, profile models.UserProfile) ([]models.Meal, string) {
	if profile.SelectedMensa == "" {
		return nil, "Bitte wähle zuerst eine Mensa in deinem Profil aus, dann kann ich dir den Speiseplan zeigen."
	}
	meals, err := s.menus.MenuForDate(ctx, profile.SelectedMensa, s.today())
	if err != nil {
		s.log.Warn("chat menu lookup failed", zap.String("mensa", profile.SelectedMensa), zap.Error(err))
		switch {
		case errors.Is(err, ErrStaleData):
			return nil, "Meine gespeicherten Speisepläne sind leider zu alt, um verlässlich zu sein. Sobald du wieder online bist, aktualisiere ich sie."
		case errors.Is(err, ErrNoConnection):
			return nil, "Ich bin gerade offline und habe keinen gespeicherten Speiseplan für deine Mensa."
		default:
			return nil, "Ich konnte den Speiseplan gerade nicht laden. Versuch es bitte später noch einmal."
		}
	}
	if len(meals) == 0 {
		return nil, "Für heute habe ich leider keinen Speiseplan für deine Mensa gefunden."
	}
	return meals, ""
}

func (s *ChatbotService) answerIngredientSearch(ctx context.Context, profile models.UserProfile, terms []string) string {
	meals, errMsg := s.todayMeals(ctx, profile)
	if errMsg != "" {
		return errMsg
	}

	var matches []models.Meal
	for _, meal := range meals {
		text := meal.SearchText()
		for _, term := range terms {
			if strings.Contains(text, term) {
				matches = append(matches, meal)
				break
			}
		}
	}
	if len(matches) == 0 {
		return "Heute gibt es leider nichts Passendes dazu auf dem Speiseplan. Frag mich gern nach einer Empfehlung!"
	}
	return "Das habe ich heute dazu gefunden:\n" + s.formatMealList(matches, 8)
}

func (s *ChatbotService) answerAllergenFree(ctx context.Context, profile models.UserProfile, lower string) string {
	meals, errMsg := s.todayMeals(ctx, profile)
	if errMsg != "" {
		return errMsg
	}

	allergen, ok := s.rules.AllergenFor(lower)
	if !ok {
		// Fall back to the word after "frei von"/"ohne".
		allergen = keywordAfter(lower, "frei von")
		if allergen == "" {
			allergen = keywordAfter(lower, "ohne")
		}
		if allergen == "" {
			return "Sag mir bitte, worauf du verzichten möchtest, z.B. \"laktosefrei\" oder \"frei von Gluten\"."
		}
	}

	excluded := s.rules.ExclusionTerms(allergen)
	var safe []models.Meal
	for _, meal := range meals {
		text := meal.AllergenText() + " " + strings.ToLower(meal.Name)
		contaminated := false
		for _, term := range excluded {
			if strings.Contains(text, term) {
				contaminated = true
				break
			}
		}
		if !contaminated {
			safe = append(safe, meal)
		}
	}
	if len(safe) == 0 {
		return fmt.Sprintf("Heute finde ich leider kein Gericht ohne %s. Frag am besten direkt beim Personal nach.", allergen)
	}
	return fmt.Sprintf("Diese Gerichte kommen laut Speiseplan ohne %s aus:\n%s\nBitte beachte: verlässliche Allergie-Auskünfte gibt nur das Mensa-Personal.",
		allergen, s.formatMealList(safe, 8))
}

func keywordAfter(lower, marker string) string {
	idx := strings.Index(lower, marker)
	if idx < 0 {
		return ""
	}
	rest := strings.TrimSpace(lower[idx+len(marker):])
	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == ' ' || r == '?' || r == '!' || r == '.' || r == ','
	})
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func (s *ChatbotService) answerRecommendation(ctx context.Context, profile models.UserProfile) string {
	meals, errMsg := s.todayMeals(ctx, profile)
	if errMsg != "" {
		return errMsg
	}

	candidates := s.mainDishes(meals)
	if len(profile.Preferences) > 0 {
		if matching := s.filterByPreferences(candidates, profile.Preferences); len(matching) > 0 {
			candidates = matching
		} else {
			return "Heute passt leider nichts zu deinen Vorlieben (" + strings.Join(profile.Preferences, ", ") + "). Soll ich dir das ganze Menü zeigen? Frag einfach nach dem heutigen Menü ohne Filter."
		}
	}
	if len(candidates) == 0 {
		return "Heute habe ich keine Hauptgerichte auf dem Speiseplan gefunden."
	}

	s.sortByImportance(candidates)
	greeting := "Das würde ich dir heute empfehlen"
	if profile.Name != "" {
		greeting = fmt.Sprintf("%s, das würde ich dir heute empfehlen", profile.Name)
	}
	return greeting + ":\n" + s.formatMealList(candidates, 5)
}

func (s *ChatbotService) answerPreferences(profile models.UserProfile) string {
	if len(profile.Preferences) == 0 {
		return "Du hast noch keine Essensvorlieben hinterlegt. In deinem Profil kannst du z.B. vegetarisch, vegan oder klimaessen auswählen."
	}
	return "Deine gespeicherten Vorlieben: " + strings.Join(profile.Preferences, ", ") + "."
}

func (s *ChatbotService) answerDietListing(ctx context.Context, profile models.UserProfile, vegan bool) string {
	meals, errMsg := s.todayMeals(ctx, profile)
	if errMsg != "" {
		return errMsg
	}

	tag := "vegetarisch"
	if vegan {
		tag = "vegan"
	}
	matching := s.filterByPreferences(meals, []string{tag})
	if len(matching) == 0 {
		return fmt.Sprintf("Heute gibt es leider keine als %s gekennzeichneten Gerichte.", tag)
	}
	return fmt.Sprintf("Diese Gerichte sind heute %s:\n%s", tag, s.formatMealList(matching, 8))
}

// answerAdditiveLookup answers "Was ist <Zusatzstoff>?" style questions from
// the cached additive list. ok is false when the message mentions no known
// additive, so routing can continue.
func (s *ChatbotService) answerAdditiveLookup(ctx context.Context, lower string) (string, bool) {
	wantsList := strings.Contains(lower, "zusatzstoff")
	additives, err := s.menus.Additives(ctx)
	if err != nil {
		if wantsList {
			return "Die Zusatzstoff-Liste ist gerade nicht verfügbar. Versuch es später noch einmal.", true
		}
		return "", false
	}

	for _, additive := range additives {
		name := strings.ToLower(additive.Label())
		if name == "" || len(name) < 3 {
			continue
		}
		if strings.Contains(lower, name) {
			if additive.Description != "" {
				return fmt.Sprintf("%s: %s", additive.Label(), additive.Description), true
			}
			return fmt.Sprintf("%s ist als Zusatzstoff bzw. Allergen gekennzeichnet.", additive.Label()), true
		}
	}

	if wantsList {
		names := make([]string, 0, len(additives))
		for _, additive := range additives {
			if additive.Label() != "" {
				names = append(names, additive.Label())
			}
			if len(names) == 10 {
				break
			}
		}
		if len(names) == 0 {
			return "Ich habe gerade keine Zusatzstoff-Daten.", true
		}
		return "Gekennzeichnete Zusatzstoffe sind zum Beispiel: " + strings.Join(names, ", ") + ".", true
	}
	return "", false
}

func (s *ChatbotService) answerSustainability(ctx context.Context, profile models.UserProfile) string {
	meals, errMsg := s.todayMeals(ctx, profile)
	if errMsg != "" {
		return errMsg
	}

	tags := []string{"klimaessen", "fairtrade", "nachhaltig", "fisch_nachhaltig"}
	matching := s.filterByPreferences(meals, tags)
	if len(matching) == 0 {
		return "Heute trägt leider kein Gericht ein Nachhaltigkeits-Badge."
	}
	return "Diese Gerichte sind heute nachhaltig gekennzeichnet:\n" + s.formatMealList(matching, 8)
}

func (s *ChatbotService) answerBudget(ctx context.Context, profile models.UserProfile) string {
	meals, errMsg := s.todayMeals(ctx, profile)
	if errMsg != "" {
		return errMsg
	}

	var cheap []models.Meal
	for _, meal := range meals {
		if price := meal.FirstPrice(); price > 0 && price <= 4.0 {
			cheap = append(cheap, meal)
		}
	}
	if len(cheap) == 0 {
		return "Unter 4 € habe ich heute leider nichts gefunden."
	}
	sort.SliceStable(cheap, func(i, j int) bool { return cheap[i].FirstPrice() < cheap[j].FirstPrice() })
	return "Diese Gerichte kosten heute maximal 4 €:\n" + s.formatMealList(cheap, 8)
}

func (s *ChatbotService) answerCanteenInfo(ctx context.Context, profile models.UserProfile) string {
	if profile.SelectedMensa == "" {
		return "Du hast noch keine Mensa ausgewählt. Das kannst du in deinem Profil nachholen."
	}
	canteen, err := s.menus.CanteenByID(ctx, profile.SelectedMensa)
	if err != nil {
		s.log.Warn("chat canteen lookup failed", zap.Error(err))
		return "Ich konnte die Informationen zu deiner Mensa gerade nicht laden."
	}
	if canteen == nil {
		return "Deine ausgewählte Mensa kenne ich leider nicht. Wähle sie bitte neu aus."
	}

	var sb strings.Builder
	sb.WriteString("Deine Mensa: " + canteen.Name)
	if addr := canteen.FullAddress(); addr != "" {
		sb.WriteString("\nAdresse: " + addr)
	}
	if canteen.ContactInfo.Phone != "" {
		sb.WriteString("\nTelefon: " + canteen.ContactInfo.Phone)
	}
	if canteen.ContactInfo.Email != "" {
		sb.WriteString("\nE-Mail: " + canteen.ContactInfo.Email)
	}
	return sb.String()
}

func (s *ChatbotService) answerOpeningHours(ctx context.Context, profile models.UserProfile) string {
	if profile.SelectedMensa == "" {
		return "Du hast noch keine Mensa ausgewählt. Das kannst du in deinem Profil nachholen."
	}
	canteen, err := s.menus.CanteenByID(ctx, profile.SelectedMensa)
	if err != nil {
		s.log.Warn("chat canteen lookup failed", zap.Error(err))
		return "Ich konnte die Öffnungszeiten gerade nicht laden."
	}
	if canteen == nil {
		return "Deine ausgewählte Mensa kenne ich leider nicht. Wähle sie bitte neu aus."
	}
	if len(canteen.OpeningHours) == 0 {
		return fmt.Sprintf("Für %s sind leider keine Öffnungszeiten hinterlegt.", canteen.Name)
	}

	var sb strings.Builder
	sb.WriteString("Öffnungszeiten von " + canteen.Name + ":")
	for _, oh := range canteen.OpeningHours {
		sb.WriteString("\n" + oh.Day)
		if oh.OpenAt != "" || oh.CloseAt != "" {
			sb.WriteString(": " + oh.OpenAt + "–" + oh.CloseAt)
		}
	}
	return sb.String()
}

func (s *ChatbotService) helpText() string {
	return strings.Join([]string{
		"Ich bin dein Mensa-Assistent! Du kannst mich zum Beispiel fragen:",
		"• \"Was kann ich heute essen?\" – persönliche Empfehlung",
		"• \"Gibt es heute etwas mit Fisch?\" – Zutaten-Suche",
		"• \"Was ist laktosefrei?\" – Gerichte ohne ein Allergen",
		"• \"Vegetarische Optionen\" – Gerichte nach Kennzeichnung",
		"• \"Günstige Gerichte\" – alles bis 4 €",
		"• \"Meine Mensa\" oder \"Öffnungszeiten\" – Infos zu deiner Mensa",
	}, "\n")
}

func (s *ChatbotService) fallbackText() string {
	return strings.Join([]string{
		"Das habe ich leider nicht verstanden. Versuch es zum Beispiel so:",
		"• \"Was kann ich heute essen?\"",
		"• \"Vegetarische Optionen\"",
		"• \"Was ist heute günstig?\"",
		"Mit \"Hilfe\" zeige ich dir alles, was ich kann.",
	}, "\n")
}

// mainDishes drops sides and promotions, and dressings masquerading as
// salads.
func (s *ChatbotService) mainDishes(meals []models.Meal) []models.Meal {
	var out []models.Meal
	for _, meal := range meals {
		category := strings.ToLower(meal.Category)
		excluded := false
		for _, ex := range s.rules.MainDishExcludedCategories {
			if category == ex {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		if strings.Contains(category, "salat") {
			name := strings.ToLower(meal.Name)
			dressing := false
			for _, term := range s.rules.SaladDressingTerms {
				if strings.Contains(name, term) {
					dressing = true
					break
				}
			}
			if dressing {
				continue
			}
		}
		out = append(out, meal)
	}
	return out
}

// filterByPreferences keeps meals carrying a badge that exactly matches one
// of the mapped badge names for any given tag.
func (s *ChatbotService) filterByPreferences(meals []models.Meal, tags []string) []models.Meal {
	var out []models.Meal
	for _, meal := range meals {
		for _, tag := range tags {
			matched := false
			for _, badge := range s.rules.BadgesForPreference(tag) {
				if meal.HasBadge(badge) {
					matched = true
					break
				}
			}
			if matched {
				out = append(out, meal)
				break
			}
		}
	}
	return out
}

// sortByImportance puts special-badged meals first, cheaper meals earlier
// within each half.
func (s *ChatbotService) sortByImportance(meals []models.Meal) {
	special := func(m models.Meal) bool {
		for _, b := range m.Badges {
			if s.rules.IsSpecialBadge(b.Name) {
				return true
			}
		}
		return false
	}
	sort.SliceStable(meals, func(i, j int) bool {
		si, sj := special(meals[i]), special(meals[j])
		if si != sj {
			return si
		}
		return meals[i].FirstPrice() < meals[j].FirstPrice()
	})
}

func (s *ChatbotService) formatMealList(meals []models.Meal, max int) string {
	if len(meals) > max {
		meals = meals[:max]
	}
	lines := make([]string, 0, len(meals))
	for _, meal := range meals {
		line := "• " + meal.Name
		if price := meal.FirstPrice(); price > 0 {
			line += " (" + FormatPrice(price) + ")"
		}
		if meal.Category != "" {
			line += " – " + meal.Category
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// FormatPrice renders a price German-style: "2,95 €".
func FormatPrice(price float64) string {
	return strings.Replace(fmt.Sprintf("%.2f €", price), ".", ",", 1)
}

// buildContext assembles the textual block the AI is grounded on: user,
// preferences, canteen and up to 12 of today's meals.
func (s *ChatbotService) buildContext(ctx context.Context, profile models.UserProfile) string {
	var sb strings.Builder

	if profile.Name != "" {
		fmt.Fprintf(&sb, "USER: %s\n", profile.Name)
	}
	if len(profile.Preferences) > 0 {
		fmt.Fprintf(&sb, "USER-PRÄFERENZEN: %s\n", strings.Join(profile.Preferences, ", "))
	}

	if profile.SelectedMensa == "" {
		return sb.String()
	}

	canteen, err := s.menus.CanteenByID(ctx, profile.SelectedMensa)
	switch {
	case err != nil:
		s.log.Warn("context canteen lookup failed", zap.Error(err))
	case canteen != nil:
		fmt.Fprintf(&sb, "AKTUELLE MENSA: %s\n", canteen.Name)
		if addr := canteen.FullAddress(); addr != "" {
			fmt.Fprintf(&sb, "ADRESSE: %s\n", addr)
		}
		// An unknown id is no failure; the context simply has no canteen.
	}

	today := s.today()
	meals, err := s.menus.MenuForDate(ctx, profile.SelectedMensa, today)
	if err != nil {
		s.log.Warn("context menu lookup failed", zap.Error(err))
		return sb.String()
	}
	if len(meals) == 0 {
		return sb.String()
	}

	fmt.Fprintf(&sb, "\nHEUTIGES MENÜ (%s):\n", today)
	for i, meal := range meals {
		if i == 12 {
			break
		}
		fmt.Fprintf(&sb, "%d. %s", i+1, meal.Name)
		if price := meal.FirstPrice(); price > 0 {
			fmt.Fprintf(&sb, " - %s", FormatPrice(price))
		}
		if meal.Category != "" {
			fmt.Fprintf(&sb, " (%s)", meal.Category)
		}
		sb.WriteString("\n")
		if len(meal.Badges) > 0 {
			names := make([]string, 0, len(meal.Badges))
			for _, b := range meal.Badges {
				names = append(names, b.Name)
			}
			fmt.Fprintf(&sb, "   Eigenschaften: %s\n", strings.Join(names, ", "))
		}
		if allergens := meal.AllergenText(); allergens != "" {
			fmt.Fprintf(&sb, "   Allergene: %s\n", allergens)
		}
	}
	sb.WriteString("\n")
	return sb.String()
}
