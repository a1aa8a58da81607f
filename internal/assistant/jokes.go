package assistant

var jokes = []string{
	"Why do programmers prefer dark mode? Because light attracts bugs.",
	"There are 10 types of people in the world: those who understand binary and those who don't.",
	"A SQL query walks into a bar, goes up to two tables and asks: may I join you?",
	"Why did the developer go broke? Because he used up all his cache.",
	"How many programmers does it take to change a light bulb? None, that's a hardware problem.",
	"I would tell you a UDP joke, but you might not get it.",
	"Debugging is like being the detective in a crime movie where you are also the murderer.",
	"Why do Java developers wear glasses? Because they don't see sharp.",
	"A programmer's partner says: go to the store and buy a loaf of bread, and if they have eggs, buy a dozen. The programmer comes home with twelve loaves.",
	"It works on my machine. Then we'll ship your machine.",
	"Knock knock. Race condition. Who's there?",
	"Why was the function sad after the party? It didn't get any callbacks.",
}
