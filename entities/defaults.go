package entities

// DefaultGeminiAPIKey is the generative API key compiled into the default
// configuration. Release builds set it with
// -ldflags "-X github.com/goliatone/go-firmsite/entities.DefaultGeminiAPIKey=...".
var DefaultGeminiAPIKey = ""

// DefaultAdminPassword is the initial admin password until changed in the
// dashboard.
const DefaultAdminPassword = "admin"

// DefaultIntegrations returns the compiled-in integration settings.
func DefaultIntegrations() Integrations {
	return Integrations{
		GeminiAPIKey: DefaultGeminiAPIKey,
	}
}

// DefaultConfig returns the compiled-in site configuration.
func DefaultConfig() SiteConfig {
	return SiteConfig{
		OfficeName:    "משרד עורכי דין",
		LogoURL:       "",
		ContactEmail:  "office@example.co.il",
		LeadsEmail:    "leads@example.co.il",
		Phone:         "03-0000000",
		Address:       "תל אביב",
		Theme:         ThemeDark,
		AdminPassword: DefaultAdminPassword,
		Integrations:  DefaultIntegrations(),
	}
}

// DefaultState returns the seed content shipped with the site. Each call
// returns fresh slices.
func DefaultState() State {
	return State{
		CurrentCategory: LandingCategory,
		IsAdminLoggedIn: false,
		Config:          DefaultConfig(),
		Slides: []Slide{
			{
				ID:         "slide-1",
				ImageURL:   "https://images.unsplash.com/photo-1589829545856-d10d557cf95f",
				Title:      "צוואה מקוונת בדקות",
				Subtitle:   "מחולל צוואות מונחה, נבדק על ידי עורך דין",
				Category:   CategoryStore,
				Order:      1,
				ButtonText: "להתחלה",
				ButtonLink: WillsGeneratorLink,
			},
			{
				ID:       "slide-2",
				ImageURL: "https://images.unsplash.com/photo-1505664194779-8beaceb93744",
				Title:    "ייפוי כוח מתמשך",
				Subtitle: "תכנון מוקדם לשקט נפשי",
				Category: CategoryPOA,
				Order:    2,
			},
			{
				ID:       "slide-3",
				ImageURL: "https://images.unsplash.com/photo-1560518883-ce09059eeffa",
				Title:    "ליווי עסקאות נדל\"ן",
				Subtitle: "מהמשא ומתן ועד רישום בטאבו",
				Category: CategoryRealEstate,
				Order:    3,
			},
		},
		Timelines: []TimelineCard{
			{
				ID:          "tl-1",
				Title:       "מחולל הצוואות",
				Description: "ערכו צוואה בסיסית באופן עצמאי",
				ImageURL:    "https://images.unsplash.com/photo-1450101499163-c8848c66ca85",
				Category:    []Category{CategoryHome, CategoryWills, CategoryStore},
				LinkTo:      WillsGeneratorLink,
			},
			{
				ID:          "tl-2",
				Title:       "פנייה לייעוץ ייפוי כוח",
				Description: "השאירו פרטים ונחזור אליכם",
				ImageURL:    "https://images.unsplash.com/photo-1521791055366-0d553872125f",
				Category:    []Category{CategoryPOA},
				LinkTo:      FormLink("form-poa"),
			},
		},
		Articles: []Article{
			{
				ID:         "1",
				Categories: []Category{CategoryWills, CategoryInheritance},
				Title:      "מדוע חשוב לערוך צוואה",
				Abstract:   "צוואה מסדירה את חלוקת העיזבון לפי רצונכם ומונעת מחלוקות.",
				ImageURL:   "https://images.unsplash.com/photo-1554224155-6726b3ff858f",
				Quote:      "מי שמתכנן מראש, חוסך מיקיריו מחלוקות.",
				Tabs: []Tab{
					{Title: "מהי צוואה", Content: "צוואה היא מסמך שבו אדם קובע מה ייעשה ברכושו לאחר מותו.\nהחוק מכיר בכמה סוגי צוואות."},
					{Title: "סוגי צוואות", Content: "צוואה בכתב יד, צוואה בעדים, צוואה בפני רשות וצוואה בעל פה."},
				},
			},
			{
				ID:         "2",
				Categories: []Category{CategoryPOA},
				Title:      "ייפוי כוח מתמשך: המדריך",
				Abstract:   "כיצד לבחור מיופה כוח ומה כולל המסמך.",
				ImageURL:   "https://images.unsplash.com/photo-1573497019940-1c28c88b4f3e",
				Tabs: []Tab{
					{Title: "למי זה מתאים", Content: "לכל אדם בגיר וכשיר המבקש לקבוע מי יפעל בשמו בעתיד."},
				},
			},
			{
				ID:         "3",
				Categories: []Category{CategoryRealEstate},
				Title:      "בדיקות לפני רכישת דירה",
				Abstract:   "נסח טאבו, היתרי בנייה ושעבודים.",
				ImageURL:   "https://images.unsplash.com/photo-1560518883-ce09059eeffa",
				Tabs: []Tab{
					{Title: "נסח טאבו", Content: "הנסח מפרט את הבעלים, המשכנתאות וההערות הרשומות על הנכס."},
				},
			},
		},
		MenuItems: []MenuItem{
			{ID: "m-home", Label: CategoryHome.Label(), Cat: CategoryHome},
			{ID: "m-real-estate", Label: CategoryRealEstate.Label(), Cat: CategoryRealEstate},
			{ID: "m-wills", Label: CategoryWills.Label(), Cat: CategoryWills},
			{ID: "m-poa", Label: CategoryPOA.Label(), Cat: CategoryPOA},
			{ID: "m-store", Label: CategoryStore.Label(), Cat: CategoryStore},
			{ID: "m-contact", Label: CategoryContact.Label(), Cat: CategoryContact},
		},
		Forms: []FormDefinition{
			{
				ID:          "form-poa",
				Title:       "בקשה לייעוץ בנושא ייפוי כוח מתמשך",
				Category:    CategoryPOA,
				SubmitEmail: "leads@example.co.il",
				Fields: []FormField{
					{ID: "fullName", Type: FieldText, Label: "שם מלא", Required: true},
					{ID: "phone", Type: FieldPhone, Label: "טלפון", Required: true},
					{ID: "email", Type: FieldEmail, Label: "דוא\"ל"},
					{ID: "forWhom", Type: FieldSelect, Label: "עבור מי", Required: true, Options: []string{"עבורי", "עבור הורה", "אחר"}},
					{ID: "hasProperty", Type: FieldBoolean, Label: "קיים נכס מקרקעין", HelpArticleID: "3"},
				},
			},
		},
		TeamMembers: []TeamMember{
			{
				ID:             "tm-1",
				FullName:       "עו\"ד ישראל ישראלי",
				Role:           "שותף מייסד",
				Specialization: "צוואות וירושות",
				Email:          "office@example.co.il",
				Phone:          "03-0000000",
				Bio:            "מלווה משפחות בתכנון עיזבון מעל עשרים שנה.",
			},
		},
	}
}
