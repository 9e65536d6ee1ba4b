package models

// Doctor is the subset of the doctor profile the booking flows rely on.
type Doctor struct {
	ID             string   `bson:"_id" firestore:"-" json:"id"`
	Name           string   `bson:"name" firestore:"name" json:"name"`
	Specialization string   `bson:"specialization" firestore:"specialization" json:"specialization"`
	Retired        bool     `bson:"retired" firestore:"retired" json:"retired"`
	FCMToken       string   `bson:"fcmToken,omitempty" firestore:"fcmToken" json:"-"`
	Bookings       []string `bson:"bookings,omitempty" firestore:"bookings" json:"bookings,omitempty"`
}

// Patient is the subset of the patient profile the booking flows rely on.
type Patient struct {
	ID       string   `bson:"_id" firestore:"-" json:"id"`
	Name     string   `bson:"name" firestore:"name" json:"name"`
	FCMToken string   `bson:"fcmToken,omitempty" firestore:"fcmToken" json:"-"`
	Bookings []string `bson:"bookings,omitempty" firestore:"bookings" json:"bookings,omitempty"`
}
