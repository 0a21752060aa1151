package responses

import "buzzy-agent/internal/domain"

// defaultBank holds the pre-authored replies for every intent category.
// Several variants per category keep repeated questions from sounding canned.
var defaultBank = map[domain.IntentCategory][]string{
	domain.IntentEnrollment: {
		"Joining is easy! The first step is a free demo class so your child can try coding with us. Message us on WhatsApp and we'll find a slot that suits you.",
		"We'd love to have your child with us! Start by booking a free demo class. Just drop us a WhatsApp message and our team will guide you through enrollment.",
		"Enrollment starts with a free demo session. After the demo, our team shares the program recommendation and the sign-up steps. Reach us on WhatsApp to get started!",
	},
	domain.IntentGreeting: {
		"Hi there! I'm Buzzy 🐝, your coding buddy. Ask me about our programs, pricing or booking a free demo class!",
		"Hello! Buzzy here 🐝. How can I help you today? I can tell you about our coding classes, projects and teachers.",
		"Hey! 👋 I'm Buzzy. Whether you're a parent or a young coder, I'm happy to help. What would you like to know?",
	},
	domain.IntentChildTone: {
		"Ooh, that sounds super cool! 🤖 In our classes you can build your own games, animations and even robots. Ask a grown-up to book a free demo so you can try it!",
		"Yes! Coding is like having superpowers 🦸. You can make games with your friends and bring robots to life. Want to try a free class?",
		"That's awesome! 🎮 Lots of our students make their own games in their very first weeks. Tell your parents about our free demo class!",
	},
	domain.IntentPricing: {
		"Our fees depend on the program and the number of sessions per month. Message us on WhatsApp and we'll share the current price list for your child's age group.",
		"Pricing varies by program level. We also offer sibling discounts and flexible monthly payments. Contact us on WhatsApp for the exact fees!",
		"The best way to get accurate pricing is to book a free demo class. After the demo we share the fee plan that fits your child's program.",
	},
	domain.IntentBooking: {
		"Booking a free demo class is simple: send us a WhatsApp message with your child's age and a preferred time, and we'll confirm a slot.",
		"We'd be happy to set up a free trial class! Reach out on WhatsApp and our team will schedule it at a time that works for you.",
		"You can book a free demo by contacting us on WhatsApp. The session takes about 45 minutes and your child gets to build something fun!",
	},
	domain.IntentPrograms: {
		"We run age-based programs: Explorers (ages 6-8) start with block coding, Innovators (ages 9-12) move to Scratch, Python and robotics, and Creators (13+) build real apps and websites.",
		"Our programs grow with your child, from visual block coding for beginners to Python, AI and app development for older students. A free demo helps us pick the right level.",
		"Each program mixes creative projects with real coding skills. Tell me your child's age and I can point you to the best fit, or book a free demo to find out!",
	},
	domain.IntentProjects: {
		"Students build real projects: games, animations, websites, apps and robotics challenges. Every term ends with a showcase of their work!",
		"From their very first class, kids create things they can show off, like interactive stories, games and later full websites and apps.",
		"Our students love the project showcase. Past projects include quiz games, weather apps, chatbots and line-following robots!",
	},
	domain.IntentTeachers: {
		"Our teachers are experienced developers and educators who love working with kids. Every instructor is trained in our child-friendly teaching method.",
		"Classes are led by qualified instructors with real coding backgrounds. Groups are small, so every child gets personal attention.",
		"Our mentors are patient, friendly and passionate about technology. They keep classes fun while making sure each student keeps progressing.",
	},
	domain.IntentEquipment: {
		"A laptop or desktop computer with a stable internet connection is all your child needs. We'll help you install any free software before the first class.",
		"Tablets work for our youngest Explorers, but we recommend a laptop or computer for the other programs. No paid software is needed!",
		"Just a computer, a webcam and headphones for online classes. For in-person classes we provide all the equipment, including robotics kits.",
	},
	domain.IntentProgress: {
		"Parents receive regular progress reports and can follow their child's projects on the parent dashboard. Students earn certificates as they complete each level.",
		"We track every student's progress through projects and short assessments, and share feedback with parents after each module.",
		"You'll always know how your child is doing: progress updates, teacher feedback and a certificate at the end of every level.",
	},
	domain.IntentScheduling: {
		"We offer weekday and weekend batches, usually one or two sessions per week. Message us on WhatsApp and we'll share the available time slots.",
		"Class timings are flexible, with after-school weekday slots and weekend sessions. Tell us what works for you and we'll find a batch.",
		"Each session lasts about an hour. We run classes on weekdays and weekends. Contact us to pick a schedule that fits your family.",
	},
	domain.IntentGeneral: {
		"Great question! I can help with our programs, pricing, teachers, schedules and booking a free demo class. For anything else, our team is happy to chat on WhatsApp.",
		"I'm not totally sure about that one, but our team is! Send us a WhatsApp message, or ask me about our coding programs and free demo classes.",
		"Thanks for your message! I know the most about our coding programs, class schedules and free demos. Is there something specific I can help with?",
	},
}
