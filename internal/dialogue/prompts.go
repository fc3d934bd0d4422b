package dialogue

import "errors"

// ErrEmptyPromptSet is returned when a converter is built without prompts.
var ErrEmptyPromptSet = errors.New("prompt set is empty")

// PromptSet is an immutable list of reflection prompts appended to conversations
type PromptSet struct {
	prompts []string
}

// NewPromptSet copies the given prompts into a new set
func NewPromptSet(prompts ...string) (PromptSet, error) {
	if len(prompts) == 0 {
		return PromptSet{}, ErrEmptyPromptSet
	}
	owned := make([]string, len(prompts))
	copy(owned, prompts)
	return PromptSet{prompts: owned}, nil
}

// Len returns the number of prompts
func (p PromptSet) Len() int { return len(p.prompts) }

// At returns the prompt at index i
func (p PromptSet) At(i int) string { return p.prompts[i] }

// Contains reports whether s is one of the prompts
func (p PromptSet) Contains(s string) bool {
	for _, prompt := range p.prompts {
		if prompt == s {
			return true
		}
	}
	return false
}

// DefaultPrompts returns the process-wide reflection prompt set
func DefaultPrompts() PromptSet {
	return defaultPrompts
}

var defaultPrompts = PromptSet{prompts: []string{
	// Communication & clarity
	"Please help me communicate better.",
	"How should I deal with this situation?",
	"How can I make my message clearer?",
	"What's a calm way to reply?",
	"How can I explain my feelings without causing tension?",
	"What could I say next?",
	"How do I express disagreement respectfully?",
	"What's the best way to start this conversation?",
	"How can I communicate my needs better?",
	"How do I stop sounding defensive?",
	"How can I listen more actively?",
	"How do I apologize sincerely?",
	"What's a kind way to say no?",
	"How can I express myself more confidently?",
	"How do I handle silence in conversations?",
	"How can I talk about my emotions clearly?",
	"How can I show appreciation through words?",
	"What's a better way to express frustration?",
	"How do I ask for help without feeling weak?",
	"How can I comfort someone who's upset?",
	"What would be a good way to respond?",
	"What's the best way to handle this conversation?",

	// Empathy & understanding
	"How can I understand this person better?",
	"Help me see this from their perspective.",
	"Why do people misunderstand each other?",
	"How do I become more empathetic?",
	"Why is empathy important?",
	"What does it mean to really listen?",
	"How can I show that I care?",
	"How do I make someone feel heard?",
	"How can I validate another person's feelings?",
	"What's the difference between empathy and sympathy?",
	"How can I handle someone else's emotions gently?",
	"How do I stay calm when someone is angry?",
	"How can I express compassion in words?",
	"How can I connect with someone emotionally?",
	"How do I handle people who shut down?",
	"Why do people avoid emotional conversations?",
	"How can I create emotional safety?",
	"What makes someone feel understood?",
	"Why do people fear being vulnerable?",
	"How can I help someone open up?",

	// Conflict resolution
	"How do I de-escalate this calmly?",
	"How can I handle arguments more maturely?",
	"What's the best way to rebuild trust after a fight?",
	"How can I end an argument without resentment?",
	"How do I talk about boundaries without guilt?",
	"How can I stay calm when criticized?",
	"How do I forgive someone who hurt me?",
	"How can I admit my mistakes without shame?",
	"How do I avoid turning disagreements into fights?",
	"What's a respectful way to give feedback?",
	"How can I disagree without offending?",
	"Why do we argue even when we care?",
	"How can I make peace after a misunderstanding?",
	"How do I talk to someone who keeps interrupting?",
	"How can I resolve tension in a friendship?",
	"How do I talk to someone who avoids conflict?",
	"What's the healthiest way to express anger?",
	"How do I let go of grudges?",
	"How can I bring closure to a difficult situation?",
	"How do I know when to stop trying?",

	// Relationships & connection
	"What is human connection?",
	"How can I feel more connected to others?",
	"Why do people grow distant?",
	"What makes a strong relationship?",
	"Why do relationships fade over time?",
	"How do I rebuild emotional closeness?",
	"What causes emotional distance?",
	"How can I show love through communication?",
	"What makes someone feel valued?",
	"How can I express affection better?",
	"How can I stay connected in long-distance relationships?",
	"How do I support someone without fixing them?",
	"Why do people push others away?",
	"How can I build trust again?",
	"How can I reconnect after a fight?",
	"Why do people withdraw emotionally?",
	"How can I be a better listener to my partner?",
	"What makes a healthy friendship?",
	"Why do people lose interest over time?",
	"How can I communicate in a more loving way?",

	// Self-reflection & growth
	"Am I right or wrong here?",
	"How can I handle criticism gracefully?",
	"How do I take responsibility without over-blaming myself?",
	"Why do I get defensive?",
	"How can I stay patient during hard conversations?",
	"Why do I overthink what people say?",
	"How do I control my reactions better?",
	"What can I learn from this argument?",
	"Why do I shut down emotionally?",
	"How can I express myself more kindly?",
	"What should I do when I feel unheard?",
	"How can I be more honest with myself?",
	"Why do I fear confrontation?",
	"How can I speak up without sounding harsh?",
	"Why do I avoid emotional topics?",
	"How can I practice self-compassion?",
	"What triggers my frustration?",
	"Why do I crave approval?",
	"How can I express my emotions without guilt?",
	"How can I communicate when I'm anxious?",

	// Humanity & deeper meaning
	"What does empathy mean?",
	"Why do humans need connection?",
	"What is vulnerability?",
	"Why do people hide their feelings?",
	"How can communication heal relationships?",
	"Why do misunderstandings happen between people?",
	"What does it mean to feel seen?",
	"Why is honesty difficult?",
	"How do emotions affect communication?",
	"What makes conversations meaningful?",
	"Why do we fear being honest?",
	"Why do people stop listening to each other?",
	"What is the role of trust in communication?",
	"Why is emotional awareness important?",
	"What makes communication authentic?",
	"Why do people struggle to apologize?",
	"What does real compassion look like?",
	"How can words build or destroy trust?",
	"What is emotional intelligence?",
	"How do I build deeper connections with people?",
}}
