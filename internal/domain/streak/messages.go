package streak

import "math/rand/v2"

// Milestone pairs a streak length with its celebration message.
type Milestone struct {
	Days    int
	Message string
}

// Milestones are ordered highest first; lookup takes the first one reached.
var Milestones = []Milestone{
	{Days: 30, Message: "30-day legend! You're unstoppable! 👑"},
	{Days: 14, Message: "Two weeks of perfect exits! 🌟"},
	{Days: 7, Message: "7-day perfect exit streak! 🔥"},
	{Days: 5, Message: "5 days strong! Keep it up! 💪"},
	{Days: 3, Message: "3-day streak! You're on a roll! ✨"},
}

// SuccessMessages are shown after a perfect exit.
var SuccessMessages = []string{
	"No U-turns today! 🔥",
	"Smooth exit, champ! 😎",
	"You remembered everything! 🎉",
	"Future you says thanks! 🙌",
	"Adulting level: Expert 💯",
	"Keys? Check. Wallet? Check. You? Awesome! ✨",
	"Exit status: Flawless 💎",
}

// MilestoneMessage returns the message of the highest milestone reached by
// streak, or "" below the lowest one.
func MilestoneMessage(streak int) string {
	for _, m := range Milestones {
		if streak >= m.Days {
			return m.Message
		}
	}
	return ""
}

// SuccessMessage picks a random success message. A nil source uses the
// global generator.
func SuccessMessage(r *rand.Rand) string {
	if r == nil {
		return SuccessMessages[rand.IntN(len(SuccessMessages))]
	}
	return SuccessMessages[r.IntN(len(SuccessMessages))]
}
