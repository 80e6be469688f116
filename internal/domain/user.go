package domain

import "time"

// Moderation status of a user account. New registrations start as pending and
// are flipped to approved (or rejected) by an external moderation action.
const (
	UserStatusPending  = "pending"
	UserStatusApproved = "approved"
	UserStatusRejected = "rejected"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

type User struct {
	ID           int     `json:"id" db:"id"`
	Email        string  `json:"email" db:"email"`
	PasswordHash string  `json:"-" db:"password_hash"`
	Nickname     string  `json:"nickname" db:"nickname"`
	Gender       string  `json:"gender" db:"gender"`
	Age          int     `json:"age" db:"age"`
	Province     string  `json:"province" db:"province"`
	City         string  `json:"city" db:"city"`
	MBTI         *string `json:"mbti" db:"mbti"`
	University   string  `json:"university" db:"university"`
	Major        *string `json:"major" db:"major"`
	Grade        string  `json:"grade" db:"grade"`
	SelfIntro    string  `json:"self_intro" db:"self_intro"`
	Expectation  string  `json:"expectation" db:"expectation"`
	Wechat       string  `json:"wechat" db:"wechat"`
	// VerificationAnswer is collected at registration for the moderator
	// reviewing the account. Never serialized back out.
	VerificationAnswer string    `json:"-" db:"verification_answer"`
	Photos             []string  `json:"photos" db:"photos"`
	Status             string    `json:"status" db:"status"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) IsApproved() bool {
	return u.Status == UserStatusApproved
}

// Avatar returns the first photo, the one shown in list views.
func (u *User) Avatar() string {
	if len(u.Photos) == 0 {
		return ""
	}
	return u.Photos[0]
}

// UserCard is the public-safe projection of a user shown to other users.
// Wechat is always blank here; disclosure goes through contact requests only.
type UserCard struct {
	ID          int      `json:"id"`
	Nickname    string   `json:"nickname"`
	Gender      string   `json:"gender"`
	Age         int      `json:"age"`
	Province    string   `json:"province"`
	City        string   `json:"city"`
	MBTI        *string  `json:"mbti"`
	University  string   `json:"university"`
	Major       *string  `json:"major"`
	Grade       string   `json:"grade"`
	SelfIntro   string   `json:"self_intro"`
	Expectation string   `json:"expectation"`
	Wechat      string   `json:"wechat"`
	Photos      []string `json:"photos"`
}

func (u *User) Card() *UserCard {
	return &UserCard{
		ID:          u.ID,
		Nickname:    u.Nickname,
		Gender:      u.Gender,
		Age:         u.Age,
		Province:    u.Province,
		City:        u.City,
		MBTI:        u.MBTI,
		University:  u.University,
		Major:       u.Major,
		Grade:       u.Grade,
		SelfIntro:   u.SelfIntro,
		Expectation: u.Expectation,
		Wechat:      "",
		Photos:      u.Photos,
	}
}
