package extract

import "fmt"

func buildProfileActivityPrompt(username string) string {
	return fmt.Sprintf(`Analyze the GitHub profile activity for %s and extract:

1. CONTRIBUTION ACTIVITY:
- Total contributions in the last year
- Contribution streak information
- Most active months/periods
- Contribution calendar patterns

2. COMMIT ACTIVITY:
- Recent commit frequency
- Commit patterns and consistency
- Languages used in commits

3. PROFILE INFORMATION:
- Bio/description
- Location
- Company/organization
- Website links
- Follower/following counts
- Account creation date

4. ACTIVITY OVERVIEW:
- Repository count (public)
- Starred repositories count
- Organization memberships (if visible)
- Recent activity patterns

Provide a comprehensive overview of the developer's GitHub activity and engagement patterns.`, username)
}

func buildRepositoriesPrompt(username string) string {
	return fmt.Sprintf(`Extract ALL repository information for %[1]s:

For EVERY repository listed, extract:
- Repository name
- Full GitHub URL (https://github.com/%[1]s/repo-name)
- Description
- Programming language(s)
- Star count
- Fork count
- Last updated date
- Is it forked from another repo?

IMPORTANT: List ALL repositories found, not just the first few.
Include both original repositories and forks.

Format each repository as:
Repository: [name]
URL: https://github.com/%[1]s/[repo-name]
Description: [description]
Language: [primary language]
Stars: [count]
Forks: [count]
Updated: [date]
Type: [Original/Forked]`, username)
}
