package web

type MenuItem struct {
	Name string
	URL  string
	Slug string
}

var menuItems = []MenuItem{
	{
		Name: "Dashboard",
		URL:  "/admin",
		Slug: "dashboard",
	},
	{
		Name: "Admissions",
		URL:  "/admin/admissions",
		Slug: "admissions",
	},
	{
		Name: "Knowledge Base",
		URL:  "/admin/knowledge",
		Slug: "knowledgebase",
	},
}
