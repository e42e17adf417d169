package cloudhealth

// GraphQL operations against the CloudHealth API. All inputs travel as
// variables; nothing is interpolated into the query text.
const (
	loginMutation = `
		mutation Login($apiKey: String!) {
			loginAPI(apiKey: $apiKey) {
				accessToken
			}
		}`

	datasetsQuery = `
		query Datasets {
			dataSources {
				id
				datasetName
				reportCount
			}
		}`

	reportsQuery = `
		query Reports($dataset: String!) {
			flexReports(dataset: $dataset) {
				id
				name
				createdBy
			}
		}`

	reportQuery = `
		query Report($id: ID!) {
			node(id: $id) {
				id
				... on FlexReport {
					name
					createdBy
					query {
						sqlStatement
						dataset
						dataGranularity
						needBackLinkingForTags
						limit
						timeRange {
							last
							from
							to
							excludeCurrent
						}
					}
					notification {
						frequency
						recipients
					}
				}
			}
		}`

	createReportMutation = `
		mutation CreateFlexReport($input: FlexReportInput!) {
			createFlexReport(input: $input) {
				id
			}
		}`
)
