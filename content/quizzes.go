package content

// Question is one multiple-choice quiz question.
type Question struct {
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
}

// PassThreshold is the fraction of correct answers needed to pass a quiz.
const PassThreshold = 0.6

// XP awarded per quiz attempt; a failed attempt still earns half.
const (
	QuizPassXP = 100
	QuizFailXP = 50
)

// QuizResult summarizes one graded attempt.
type QuizResult struct {
	LessonID string `json:"lesson_id"`
	Score    int    `json:"score"`
	Total    int    `json:"total"`
	Passed   bool   `json:"passed"`
	XPEarned int    `json:"xp_earned"`
}

// Grade scores a sequence of selected option indexes against the quiz for
// the lesson. Missing answers count as wrong.
func Grade(lessonID string, selections []int) (QuizResult, bool) {
	questions, ok := QuizFor(lessonID)
	if !ok {
		return QuizResult{}, false
	}
	score := 0
	for i, q := range questions {
		if i < len(selections) && selections[i] == q.Correct {
			score++
		}
	}
	passed := float64(score) >= float64(len(questions))*PassThreshold
	res := QuizResult{
		LessonID: lessonID,
		Score:    score,
		Total:    len(questions),
		Passed:   passed,
		XPEarned: QuizFailXP,
	}
	if passed {
		res.XPEarned = QuizPassXP
	}
	return res, true
}

// QuizFor returns the question set for a lesson.
func QuizFor(lessonID string) ([]Question, bool) {
	q, ok := quizBank[lessonID]
	return q, ok
}

var quizBank = map[string][]Question{
	"money-basics-1": {
		{
			Prompt: "What is the primary purpose of money?",
			Options: []string{
				"To store value and exchange goods",
				"Only for decoration",
				"To make paper",
				"Only for lending",
			},
			Correct:     0,
			Explanation: "Money serves as a medium of exchange, a store of value, and a unit of account.",
		},
		{
			Prompt: "Which of these is NOT a form of money?",
			Options: []string{
				"Coins",
				"Bank notes",
				"Digital payments",
				"Personal promises",
			},
			Correct:     3,
			Explanation: "Personal promises are not considered money. Money must be widely accepted as a medium of exchange.",
		},
		{
			Prompt: "Why is saving money in a safe place important?",
			Options: []string{
				"It helps protect and preserve its value",
				"Money grows automatically without effort",
				"Money never loses value",
				"Banks give it back doubled",
			},
			Correct:     0,
			Explanation: "Saving money in safe places like banks protects it from loss or theft and may earn interest.",
		},
	},
	"money-basics-2": {
		{
			Prompt: "What is income?",
			Options: []string{
				"Money you spend on things",
				"Money you earn or receive",
				"Money you lend to others",
				"Money you find",
			},
			Correct:     1,
			Explanation: "Income is the money you earn from work, business, or other sources.",
		},
		{
			Prompt: "What are expenses?",
			Options: []string{
				"Money you earn",
				"Money you save",
				"Money you spend on goods and services",
				"Money you invest",
			},
			Correct:     2,
			Explanation: "Expenses are the costs of goods and services you buy or pay for.",
		},
		{
			Prompt: "What happens when expenses are greater than income?",
			Options: []string{
				"You save money",
				"You go into debt",
				"You become rich",
				"Nothing happens",
			},
			Correct:     1,
			Explanation: "When you spend more than you earn, you may need to borrow money, leading to debt.",
		},
	},
	"savings-1": {
		{
			Prompt: "Why is it important to save money regularly?",
			Options: []string{
				"To prepare for future needs and emergencies",
				"Money saved disappears",
				"There is no benefit",
				"Only rich people should save",
			},
			Correct:     0,
			Explanation: "Regular saving helps you prepare for unexpected expenses and achieve future goals.",
		},
		{
			Prompt: "What is a good habit for building savings?",
			Options: []string{
				"Spend first, save if anything is left",
				"Save a fixed amount before spending",
				"Only save when you have extra money",
				"Never save, always spend",
			},
			Correct:     1,
			Explanation: "Saving first (paying yourself first) ensures you build savings consistently.",
		},
		{
			Prompt: "How much should you try to save from your income?",
			Options: []string{
				"Nothing",
				"Everything",
				"At least 10-20% regularly",
				"Only once a year",
			},
			Correct:     2,
			Explanation: "Financial experts recommend saving at least 10-20% of your income regularly.",
		},
	},
	"savings-2": {
		{
			Prompt: "What is an emergency fund?",
			Options: []string{
				"Money for shopping",
				"Money saved for unexpected expenses",
				"Money for vacations",
				"Money to lend to friends",
			},
			Correct:     1,
			Explanation: "An emergency fund is money set aside specifically for unexpected expenses like medical bills or job loss.",
		},
		{
			Prompt: "How many months of expenses should an emergency fund cover?",
			Options: []string{
				"One week",
				"3-6 months",
				"10 years",
				"No specific amount",
			},
			Correct:     1,
			Explanation: "Financial experts recommend having 3-6 months of living expenses in an emergency fund.",
		},
		{
			Prompt: "When should you use your emergency fund?",
			Options: []string{
				"For a new phone",
				"For a vacation",
				"For medical emergencies or job loss",
				"For shopping sales",
			},
			Correct:     2,
			Explanation: "Emergency funds should only be used for true emergencies like medical expenses or sudden job loss.",
		},
	},
	"budgeting-1": {
		{
			Prompt: "What is the 50-30-20 budgeting rule?",
			Options: []string{
				"50% needs, 30% wants, 20% savings",
				"50% savings, 30% needs, 20% wants",
				"50% wants, 30% savings, 20% needs",
				"50% investments, 30% needs, 20% wants",
			},
			Correct:     0,
			Explanation: "The 50-30-20 rule suggests allocating 50% for needs, 30% for wants, and 20% for savings.",
		},
		{
			Prompt: "Which of these is a \"need\" in budgeting?",
			Options: []string{
				"Movie tickets",
				"Rent and food",
				"Designer clothes",
				"Gaming subscriptions",
			},
			Correct:     1,
			Explanation: "Needs are essential expenses like housing, food, utilities, and basic transportation.",
		},
		{
			Prompt: "Why is tracking your spending important?",
			Options: []string{
				"It helps you know where your money goes",
				"It makes money grow",
				"It is not important",
				"Only banks need to track",
			},
			Correct:     0,
			Explanation: "Tracking spending helps you identify where your money goes and make better financial decisions.",
		},
	},
	"investing-1": {
		{
			Prompt: "What does ROI stand for?",
			Options: []string{
				"Return of Investment",
				"Rate of Interest",
				"Return on Investment",
				"Risk on Investment",
			},
			Correct:     2,
			Explanation: "ROI stands for Return on Investment, measuring the profitability of an investment.",
		},
		{
			Prompt: "Why do people invest money?",
			Options: []string{
				"To lose it",
				"To make their money grow over time",
				"Because they have too much",
				"Only for fun",
			},
			Correct:     1,
			Explanation: "People invest to grow their wealth over time through returns like interest, dividends, or appreciation.",
		},
		{
			Prompt: "What is a key rule of investing?",
			Options: []string{
				"Invest all your money in one place",
				"Only invest what you can afford to lose",
				"Borrow money to invest",
				"Always invest based on tips",
			},
			Correct:     1,
			Explanation: "You should only invest money you can afford to lose and diversify your investments to reduce risk.",
		},
	},
}
