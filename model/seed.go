package model

// Seed records are returned for a collection that has never been written
// or cannot be read. Each call returns fresh values.

func SeedArticles() []Article {
	return []Article{
		{
			ID:       "1001",
			Title:    "Understanding Tawheed",
			Category: "Aqeedah",
			Author:   "Islamic Scholar",
			Content:  "Tawheed is the foundation of Islamic belief. It means the absolute oneness of Allah and rejecting all forms of polytheism. This article explores the importance of Tawheed in Islamic theology.",
			Date:     "11/15/2025",
			Views:    245,
			Status:   StatusPublished,
		},
		{
			ID:       "1002",
			Title:    "The Five Pillars of Islam",
			Category: "Ibadah",
			Author:   "Islamic Educator",
			Content:  "The Five Pillars are the foundation of Islamic practice. They include Shahada (declaration of faith), Salah (prayer), Zakat (charity), Sawm (fasting), and Hajj (pilgrimage). Each pillar holds great significance in a Muslim's life.",
			Date:     "11/20/2025",
			Views:    189,
			Status:   StatusPublished,
		},
		{
			ID:       "1003",
			Title:    "Noble Manners in Islam",
			Category: "Akhlaq",
			Author:   "Hadith Expert",
			Content:  "Islamic teachings emphasize the importance of good manners and noble character. The Prophet Muhammad (peace be upon him) said, 'The best of you are those with the best manners.' This article discusses Islamic etiquette and virtues.",
			Date:     "11/25/2025",
			Views:    156,
			Status:   StatusPublished,
		},
	}
}

func SeedBlogs() []Blog {
	return []Blog{
		{
			ID:       "2001",
			Title:    "My Journey to Islam",
			Author:   "Ahmed Hassan",
			Content:  "Alhamdulillah, I embraced Islam last year. This is my personal journey and how it changed my life for the better. Learning about Islamic teachings has been transformative.",
			Date:     "11/10/2025",
			Category: "Personal",
			Views:    342,
			Likes:    87,
			Status:   StatusPublished,
		},
	}
}

func SeedCategories() []Category {
	return []Category{
		{ID: "3001", Name: "Aqeedah", Description: "Islamic Belief & Theology", Icon: "book"},
		{ID: "3002", Name: "Ibadah", Description: "Acts of Worship", Icon: "pray"},
		{ID: "3003", Name: "Akhlaq", Description: "Islamic Manners & Ethics", Icon: "heart"},
		{ID: "3004", Name: "Fiqh", Description: "Islamic Jurisprudence", Icon: "scale"},
		{ID: "3005", Name: "Tafsir", Description: "Qur'an Interpretation", Icon: "book-quran"},
		{ID: "3006", Name: "Sunnah", Description: "Prophetic Tradition", Icon: "scroll"},
		{ID: "3007", Name: "General", Description: "General Islamic Topics", Icon: "star"},
	}
}

func SeedUsers() []User {
	return []User{
		{ID: "4001", Username: "SEMEELKT", Email: "admin@wuroud.com", Role: RoleAdmin, JoinDate: "11/01/2025", Status: UserActive},
	}
}
