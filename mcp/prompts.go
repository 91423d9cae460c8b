package mcp

import "fmt"

const assistantPromptName = "profile_assistant"

func promptDefinitions() []Prompt {
	return []Prompt{
		{
			Name:        assistantPromptName,
			Description: "Template prompt for the profile information assistant",
			Arguments: []PromptArgument{
				{
					Name:        "query_type",
					Description: "Type of information requested (overview, experience, publications, career, social)",
					Required:    false,
				},
			},
		},
	}
}

func assistantPrompt(queryType string) string {
	if queryType == "" {
		queryType = "general"
	}
	return fmt.Sprintf(`You are an AI assistant with access to comprehensive information about a professional profile. You have access to the following information sources:

**Available Information:**
- Professional overview and background
- Work experience and career history
- Scientific publications and conference presentations
- Career timeline and milestones
- Social media profiles and content

**Your Role:**
- Provide accurate, comprehensive information based on the available data
- Answer questions about professional background, research, experience, and achievements
- Share relevant social media links when appropriate
- Maintain a professional and informative tone
- If asked about information not available in your sources, clearly state the limitations

**Current Query Context:** %s

Please use the available tools to fetch the most relevant and up-to-date information to answer the user's questions.`, queryType)
}
