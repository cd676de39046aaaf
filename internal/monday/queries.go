package monday

// GraphQL documents. All inputs travel as variables; user data never gets
// interpolated into query text.

// QueryBoardSchema is the primary structure read.
const QueryBoardSchema = `query BoardSchema($boardID: [ID!]) {
  boards(ids: $boardID) {
    id
    name
    board_kind
    board_folder_id
    description
    state
    workspace_id
    permissions
    columns {
      id
      title
      type
      settings_str
      width
      archived
      description
    }
    groups {
      id
      title
      color
      position
    }
    tags {
      id
      name
      color
    }
    owner {
      id
      name
      email
    }
  }
}`

// QueryBoardSchemaMinimal is the schema fallback: just enough to resolve
// columns and validate values.
const QueryBoardSchemaMinimal = `query BoardSchemaMinimal($boardID: [ID!]) {
  boards(ids: $boardID) {
    id
    name
    columns {
      id
      title
      type
      settings_str
    }
    groups {
      id
      title
    }
  }
}`

// QueryBoardMetadata is the extended metadata read.
const QueryBoardMetadata = `query BoardMetadata($boardID: [ID!]) {
  boards(ids: $boardID) {
    id
    name
    board_kind
    board_folder_id
    description
    state
    permissions
    workspace {
      id
      name
      kind
    }
    groups {
      id
      title
      color
      position
    }
    tags {
      id
      name
      color
    }
    owner {
      id
      name
      email
    }
    subscribers {
      id
      name
    }
    updates(limit: 10) {
      id
      body
      created_at
      creator {
        id
        name
      }
    }
    views {
      id
      name
      type
      settings_str
    }
  }
}`

// QueryBoardItems is the primary items read: full values plus group.
const QueryBoardItems = `query BoardItems($boardID: [ID!], $limit: Int) {
  boards(ids: $boardID) {
    id
    items_page(limit: $limit) {
      cursor
      items {
        id
        name
        group {
          id
          title
        }
        column_values {
          id
          text
          type
          value
        }
      }
    }
  }
}`

// QueryBoardItemsMinimal is the items fallback without group data.
const QueryBoardItemsMinimal = `query BoardItemsMinimal($boardID: [ID!], $limit: Int) {
  boards(ids: $boardID) {
    id
    items_page(limit: $limit) {
      items {
        id
        name
        column_values {
          id
          text
          type
          value
        }
      }
    }
  }
}`

// QueryItemByID fetches one item directly.
const QueryItemByID = `query ItemByID($itemID: [ID!]) {
  items(ids: $itemID) {
    id
    name
    group {
      id
      title
    }
    column_values {
      id
      text
      type
      value
    }
  }
}`

// QueryItemsByColumnValue filters server side. monday matches display values
// exactly, so this only serves exact-match column types.
const QueryItemsByColumnValue = `query ItemsByColumnValue($boardID: ID!, $columnID: String!, $value: String!, $limit: Int) {
  items_page_by_column_values(
    board_id: $boardID
    columns: [{column_id: $columnID, column_values: [$value]}]
    limit: $limit
  ) {
    items {
      id
      name
      group {
        id
        title
      }
      column_values {
        id
        text
        type
        value
      }
    }
  }
}`

const MutationCreateItem = `mutation CreateItem($boardID: ID!, $groupID: String, $itemName: String!, $columnValues: JSON) {
  create_item(
    board_id: $boardID
    group_id: $groupID
    item_name: $itemName
    column_values: $columnValues
  ) {
    id
    name
    group {
      id
    }
  }
}`

const MutationUpdateItem = `mutation UpdateItem($boardID: ID!, $itemID: ID!, $columnValues: JSON!) {
  change_multiple_column_values(
    board_id: $boardID
    item_id: $itemID
    column_values: $columnValues
  ) {
    id
    name
  }
}`

const MutationDeleteItem = `mutation DeleteItem($itemID: ID!) {
  delete_item(item_id: $itemID) {
    id
  }
}`
