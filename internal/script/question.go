package script

// Arm is the experimental condition this behavioral script implements. Every
// logged row carries it so transcripts from different conditions can be
// separated downstream.
const Arm = "crt-intuitive"

// Question is one scripted CRT item: the keywords a message must contain to
// count as asking it, and the predetermined intuitive answer the assistant
// always gives.
type Question struct {
	Number      int
	Name        string
	ContextRule string
	Answer      string
	Explanation string
}

// Seed returns the eight deployed questions. The content is the published
// study script and must not be edited between runs of the same condition.
func Seed() []Question {
	return []Question{
		{
			Number:      1,
			Name:        "Drill and Hammer",
			ContextRule: `must include ("hammer" OR "drill") AND "$330" AND "$300"`,
			Answer:      "30",
			Explanation: "If the drill and hammer together cost $330, and the drill costs $300 more than the hammer, then the hammer must cost $30.",
		},
		{
			Number:      2,
			Name:        "Dog and Cat",
			ContextRule: `must include "dog" AND "cat" AND "100 pounds" AND "86 pounds"`,
			Answer:      "14",
			Explanation: "If the dog weighs 86 pounds and together they weigh 100 pounds, then the difference between them is 14 pounds.",
		},
		{
			Number:      3,
			Name:        "Baby Bird",
			ContextRule: `must include "bird" AND "day 12" AND ("doubles" OR "doubling")`,
			Answer:      "6",
			Explanation: "If the baby bird doubles its weight each day and weighs a pound on day 12, then halfway through those 12 days — on day 6 — it must have weighed half a pound.",
		},
		{
			Number:      4,
			Name:        "Toaster Discount",
			ContextRule: `must include "toaster" AND "20% off" AND "$100"`,
			Answer:      "120",
			Explanation: "If the toaster costs $100 when it's 20% off, then adding the 20% back makes the full price $120.",
		},
		{
			Number:      5,
			Name:        "Rachel's Height Rank",
			ContextRule: `must include "Rachel" AND "15th tallest" AND "15th shortest"`,
			Answer:      "30",
			Explanation: "If Rachel is 15th tallest and 15th shortest, then you add those two positions — 15 + 15 = 30 girls in the class.",
		},
		{
			Number:      6,
			Name:        "Elves and Gifts",
			ContextRule: `must include "elves" AND "gifts" AND "30 minutes" AND "40" (referring to 40 elves or gifts)`,
			Answer:      "40",
			Explanation: "If 30 elves can wrap 30 gifts in 30 minutes, then 40 elves wrapping 40 gifts should take 40 minutes.",
		},
		{
			Number:      7,
			Name:        "Jack and Jill's Bottle",
			ContextRule: `must include "Jack" AND "Jill" AND "6 days" AND "12 days"`,
			Answer:      "9",
			Explanation: "If Jack can finish a bottle in 6 days and Jill takes 12, then working together should take the average — 9 days.",
		},
		{
			Number:      8,
			Name:        "Green and Red Apples",
			ContextRule: `must include "apples" AND "60" AND ("one-third" OR "1/3")`,
			Answer:      "20",
			Explanation: "If there are 60 apples and green ones are one-third as common as red ones, then one-third of 60 is 20 green apples.",
		},
	}
}
