package intent

// Keyword tables are matched against the padded form of a message: lower-cased
// words joined by single spaces with one space on each side. A keyword with
// surrounding spaces only matches whole words; one without matches any substring.

var enrollmentKeywords = []string{
	" enrol", // also covers enroll, enrolment, enrollment
	"admission",
	" sign up ",
	" signup ",
	"registration",
	" apply ",
	" get started ",
	" sign my ",
}

// enrollmentHowVerbs pair with " how " to form the compound enrollment pattern.
var enrollmentHowVerbs = []string{
	" join",
	" start",
	" sign up ",
	" register",
	" enroll",
}

var greetingKeywords = []string{
	" hi ",
	" hii ",
	" hello ",
	" hey ",
	" hiya ",
	" howdy ",
	" hola ",
	" namaste ",
	" greetings ",
	" yo ",
	"good morning",
	"good afternoon",
	"good evening",
	"hi there",
	"hello there",
	"hey there",
	"hey buzzy",
	"hi buzzy",
	"hello buzzy",
}

// childPhrases are idioms that suggest a child is typing.
var childPhrases = []string{
	" can i ",
	" can we ",
	"is it fun",
	"make a game",
	"make games",
	"make my own game",
	" i wanna ",
	"i want to make",
	" my mom ",
	" my mum ",
	" my dad ",
	" minecraft",
	" roblox",
	" fortnite",
	" pokemon",
	" among us",
	" scratch jr",
}

var childToneKeywords = []string{
	"game",
	"robot",
	" fun ",
	" funny ",
	" cool ",
	"friend",
	" play ",
	"awesome",
	"animation",
	"cartoon",
	" toy ",
	" toys ",
	"minecraft",
	"roblox",
}

var pricingKeywords = []string{
	" fee ",
	" fees ",
	" price",
	"pricing",
	" cost ",
	" costs ",
	"how much",
	"monthly",
	"payment",
	" pay ",
	"discount",
	" charge ",
	" charges ",
	" charged ",
	"afford",
	"expensive",
	" cheap",
	"installment",
	"refund",
}

var bookingKeywords = []string{
	" demo ",
	" demos ",
	" trial",
	" book ",
	"booking",
	"free class",
	"appointment",
	"whatsapp",
	"contact",
	" call ",
	"talk to",
	" visit ",
}

var programsKeywords = []string{
	"program",
	"course",
	"curriculum",
	" class ",
	" classes ",
	"python",
	"scratch",
	"coding",
	"robotics",
	" ai ",
	"innovators",
	"explorers",
	"creators",
	" level",
	" age ",
	" ages ",
	"what do you teach",
	" learn",
}

var projectsKeywords = []string{
	"project",
	" build",
	"create",
	" app ",
	" apps ",
	"website",
	"portfolio",
	"showcase",
}

var teachersKeywords = []string{
	"teacher",
	"instructor",
	" tutor ",
	" tutors ",
	"mentor",
	" coach ",
	" coaches ",
	" coaching ",
	"who teaches",
	"qualified",
	" staff ",
}

var equipmentKeywords = []string{
	"laptop",
	"computer",
	" pc ",
	"device",
	"tablet",
	"ipad",
	"equipment",
	"software",
	"internet",
	" install",
	"webcam",
	"headphone",
}

var progressKeywords = []string{
	"progress",
	" report",
	"feedback",
	"improve",
	"certificate",
	" track",
	"assessment",
	"how is my",
}

var schedulingKeywords = []string{
	"schedule",
	"timing",
	" time ",
	" times ",
	"weekend",
	"weekday",
	" slot",
	" when ",
	"holiday",
	" batch",
	"how long",
	"duration",
	"days a week",
}
