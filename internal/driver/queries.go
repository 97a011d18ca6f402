package driver

const (
	SavePersonNodeQuery = `
		MERGE (n:Kin {id: $id, tree_id: $tree_id})
		SET n:Person,
			n.name = $label,
			n.photo = $photo,
			n.gender = $gender
		RETURN n.id AS id
	`

	SaveUnionNodeQuery = `
		MERGE (n:Kin {id: $id, tree_id: $tree_id})
		SET n:Union
		RETURN n.id AS id
	`

	SaveSpouseEdgeQuery = `
		MATCH (source:Kin {id: $source_id, tree_id: $tree_id})
		MATCH (target:Kin {id: $target_id, tree_id: $tree_id})
		MERGE (source)-[e:SPOUSE_OF {id: $id}]->(target)
		SET e.tree_id = $tree_id,
			e.rel = $rel
		RETURN e.id AS id
	`

	SaveChildEdgeQuery = `
		MATCH (source:Kin {id: $source_id, tree_id: $tree_id})
		MATCH (target:Kin {id: $target_id, tree_id: $tree_id})
		MERGE (source)-[e:PARENT_OF {id: $id}]->(target)
		SET e.tree_id = $tree_id,
			e.rel = $rel
		RETURN e.id AS id
	`

	DeleteTreeQuery = `
		MATCH (n:Kin {tree_id: $tree_id})
		DETACH DELETE n
	`

	CountTreeQuery = `
		MATCH (n:Kin {tree_id: $tree_id})
		RETURN count(n) AS nodes
	`

	ShortestPathQuery = `
		MATCH p = (a:Kin {id: $root, tree_id: $tree_id})-[*BFS]-(b:Kin {id: $goal, tree_id: $tree_id})
		RETURN [n IN nodes(p) | n.id] AS node_ids, [r IN relationships(p) | r.id] AS edge_ids
		LIMIT 1
	`

	ShortestDirectedPathQuery = `
		MATCH p = (a:Kin {id: $root, tree_id: $tree_id})-[*BFS]->(b:Kin {id: $goal, tree_id: $tree_id})
		RETURN [n IN nodes(p) | n.id] AS node_ids, [r IN relationships(p) | r.id] AS edge_ids
		LIMIT 1
	`
)
