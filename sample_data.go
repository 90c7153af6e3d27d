package xsdgen

// Sample pools drawn from by the scalar heuristics. They are read-only; the
// generator only ever indexes into them.
var (
	personNames = []string{
		"John Smith", "Emma Johnson", "Michael Brown", "Sarah Davis", "David Wilson",
		"Lisa Anderson", "James Taylor", "Jennifer Martinez", "Robert Garcia", "Mary Rodriguez",
		"Christopher Lee", "Jessica White", "Matthew Martin", "Ashley Thompson", "Daniel Jackson",
		"Amanda Miller", "Kevin Moore", "Rachel Green", "Steven Clark", "Nicole Lewis",
	}
	firstNames = []string{
		"John", "Emma", "Michael", "Sarah", "David", "Lisa", "James", "Jennifer", "Robert", "Mary",
		"Christopher", "Jessica", "Matthew", "Ashley", "Daniel", "Amanda", "Kevin", "Rachel", "Steven", "Nicole",
	}
	lastNames = []string{
		"Smith", "Johnson", "Brown", "Davis", "Wilson", "Anderson", "Taylor", "Martinez", "Garcia", "Rodriguez",
		"Lee", "White", "Martin", "Thompson", "Jackson", "Miller", "Moore", "Green", "Clark", "Lewis",
	}
	companies = []string{
		"Global Logistics Inc", "Express Delivery Corp", "Prime Shipping Solutions", "FastTrack Distribution",
		"Worldwide Express", "Rapid Transit Co", "Elite Freight Services", "Supreme Logistics",
		"NextGen Shipping", "Advanced Distribution Systems", "Premier Cargo Solutions", "Metro Business Group",
		"International Trade Corp", "Regional Partners LLC", "Central Commerce Inc",
	}
	products = []string{
		"Wireless Headphones", "Smartphone Case", "Laptop Charger", "Bluetooth Speaker", "USB Cable",
		"Power Bank", "Tablet Stand", "Wireless Mouse", "Keyboard Cover", "Monitor Stand",
		"Desktop Organizer", "Cable Management Kit", "Phone Holder", "Laptop Bag", "Screen Protector",
		"Gaming Controller", "External Hard Drive", "Webcam", "Microphone", "LED Light Strip",
	}
	streets = []string{
		"Main Street", "Oak Avenue", "Park Road", "First Street", "Second Avenue", "Business Boulevard",
		"Industrial Way", "Commerce Drive", "Market Street", "Broadway", "Central Avenue", "Pine Street",
		"Maple Lane", "Cedar Court", "Elm Drive", "Washington Street", "Lincoln Avenue", "Roosevelt Road",
	}
	cities = []string{
		"New York", "Los Angeles", "Chicago", "Houston", "Phoenix", "Philadelphia", "San Antonio",
		"San Diego", "Dallas", "San Jose", "Austin", "Jacksonville", "Fort Worth", "Columbus",
		"Charlotte", "Seattle", "Denver", "Boston", "Nashville", "Detroit",
	}
	countries    = []string{"United States", "Canada", "Germany", "United Kingdom", "France", "Australia", "Japan", "Netherlands", "Spain", "Italy"}
	countryCodes = []string{"US", "CA", "DE", "GB", "FR", "AU", "JP", "NL", "ES", "IT"}
	currencies   = []string{"USD", "EUR", "GBP", "CAD", "AUD", "JPY", "CHF", "SEK", "NOK"}
	statuses     = []string{"Active", "Pending", "Completed", "In Progress", "Delivered", "Confirmed", "Processing", "Shipped", "Cancelled", "On Hold"}
	typeNames    = []string{"Standard", "Express", "Priority", "Regular", "Special", "Premium", "Economy", "Urgent", "Next Day"}
	departments  = []string{"Sales", "Marketing", "Operations", "Finance", "IT", "Human Resources", "Logistics", "Customer Service", "Quality Assurance"}
	titles       = []string{"Mr.", "Ms.", "Dr.", "Prof.", "Mrs."}
	indicators   = []string{"Y", "N", "X", "1", "0"}
	units        = []string{"EA", "PC", "KG", "LB", "M", "FT", "L", "GAL"}
	regionCodes  = []string{"CA", "NY", "TX", "FL", "IL", "PA", "OH", "GA", "NC", "MI"}
	sizeCodes    = []string{"XS", "S", "M", "L", "XL", "XXL"}
	categories   = []string{"A", "B", "C", "Standard", "Premium", "Basic"}

	emailDomains = []string{"company.com", "business.org", "enterprise.net", "corp.com", "global.com"}
	emailUsers   = []string{"contact", "info", "sales", "support", "admin", "service"}
	uriHosts     = []string{"example.com", "api.example.org", "portal.example.net", "docs.example.com"}
	uriSegments  = []string{"orders", "deliveries", "items", "documents", "events", "partners"}

	productAdjectives    = []string{"High-quality", "Premium", "Standard", "Professional", "Commercial", "Industrial"}
	productNouns         = []string{"equipment", "component", "device", "tool", "accessory", "part"}
	deliveryDescriptions = []string{
		"Express delivery service", "Standard shipping method", "Priority handling required",
		"Special packaging needed", "Fragile items included", "Rush order processing",
	}
	reasonDescriptions = []string{
		"Customer request", "Inventory adjustment", "Quality control check",
		"Special instructions", "Expedited processing", "Standard procedure",
	}
	genericDescriptions = []string{
		"Processing required", "Standard handling", "Quality verified",
		"Inspection complete", "Documentation attached", "Approved for shipment",
	}
)

// Delivery domain vocabularies. The unconstrained pools exclude the values
// that common delivery filters forbid (ZLR, ZRET) and cover the values they
// require (distribution centers 5550/5560, storage location 0001).
var (
	deliveryTypes       = []string{"ZNF", "ZORD", "ZCAN", "ZNEW", "ZUPD", "ZSTD"}
	distributionCenters = []string{"5550", "5560", "5570", "5580", "5590"}
	storageLocations    = []string{"0001", "0002", "0003", "0010", "0020"}
	eventIDs            = []string{"YCOM001", "YCOM002", "YCOM003", "YSHP001", "YSHP002", "YPCK001", "YPCK002"}

	// alternativeDeliveryTypes is the pool a not_in constraint draws from.
	alternativeDeliveryTypes = []string{"ZNF", "ZORD", "ZCAN", "ZNEW", "ZUPD"}
	// allowedEventIDs is the pool EventList synthesis draws from under a
	// no_events_with_ids constraint.
	allowedEventIDs = []string{"YCOM001", "YCOM002", "YCOM003", "YSHP001", "YSHP002"}
)

const (
	codeAlphabet          = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	eventDescription      = "System generated event"
	differentValueLiteral = "different_value"
)
